package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/catalog"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
)

// CatalogHandler gère voyages, services et fournisseurs (protégé).
type CatalogHandler struct {
	uc *catalog.Service
}

// NewCatalogHandler construit le handler.
func NewCatalogHandler(uc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateDestination POST /api/destinations
func (h *CatalogHandler) CreateDestination(c *fiber.Ctx) error {
	var in dto.CreateDestinationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	d, err := h.uc.CreateDestination(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

// ListDestinations GET /api/destinations?limit=20&offset=0
func (h *CatalogHandler) ListDestinations(c *fiber.Ctx) error {
	list, err := h.uc.ListDestinations(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateService POST /api/services
func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.CreateServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.CreateService(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListServices GET /api/services?type=&supplier_id=&limit=20&offset=0
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	list, err := h.uc.ListServices(c.Context(), c.Query("type"), c.Query("supplier_id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// CreateSupplier POST /api/suppliers
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.CreateSupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.CreateSupplier(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

// ListSuppliers GET /api/suppliers?limit=20&offset=0
func (h *CatalogHandler) ListSuppliers(c *fiber.Ctx) error {
	list, err := h.uc.ListSuppliers(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
