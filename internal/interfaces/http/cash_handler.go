package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/cashregister"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
)

// CashHandler gère les caisses et leurs opérations (protégé).
type CashHandler struct {
	uc *cashregister.Service
}

// NewCashHandler construit le handler.
func NewCashHandler(uc *cashregister.Service) *CashHandler {
	return &CashHandler{uc: uc}
}

// Create POST /api/registers
func (h *CashHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	reg, err := h.uc.CreateRegister(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reg)
}

// GetByID GET /api/registers/:id
func (h *CashHandler) GetByID(c *fiber.Ctx) error {
	reg, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reg)
}

// List GET /api/registers?limit=20&offset=0
func (h *CashHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Open POST /api/registers/:id/open
// Une sous-caisse exige sa principale ouverte. Le solde d'ouverture reprend
// le solde de fermeture précédent.
func (h *CashHandler) Open(c *fiber.Ctx) error {
	reg, err := h.uc.Open(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reg)
}

// Close POST /api/registers/:id/close
// Une principale ne ferme pas tant qu'une sous-caisse est ouverte.
func (h *CashHandler) Close(c *fiber.Ctx) error {
	reg, err := h.uc.Close(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reg)
}

// AddOperation POST /api/registers/:id/operations
func (h *CashHandler) AddOperation(c *fiber.Ctx) error {
	var in dto.CreateOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	op, err := h.uc.AddOperation(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(op)
}

// ListOperations GET /api/registers/:id/operations?limit=20&offset=0
func (h *CashHandler) ListOperations(c *fiber.Ctx) error {
	list, err := h.uc.ListOperations(c.Context(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ConfirmOperation POST /api/operations/:id/confirm
func (h *CashHandler) ConfirmOperation(c *fiber.Ctx) error {
	op, err := h.uc.ConfirmOperation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(op)
}

// CancelOperation POST /api/operations/:id/cancel
func (h *CashHandler) CancelOperation(c *fiber.Ctx) error {
	op, err := h.uc.CancelOperation(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(op)
}
