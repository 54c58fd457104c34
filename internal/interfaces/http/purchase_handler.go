package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
)

// PurchaseHandler gère les factures fournisseurs et les retenues (protégé).
type PurchaseHandler struct {
	purchaseUC    *billing.PurchaseUseCase
	withholdingUC *billing.WithholdingUseCase
}

// NewPurchaseHandler construit le handler.
func NewPurchaseHandler(purchaseUC *billing.PurchaseUseCase, withholdingUC *billing.WithholdingUseCase) *PurchaseHandler {
	return &PurchaseHandler{purchaseUC: purchaseUC, withholdingUC: withholdingUC}
}

// Create POST /api/purchases
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.purchaseUC.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// GetByID GET /api/purchases/:id
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.purchaseUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// List GET /api/purchases?state=&limit=20&offset=0
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	if supplierID := c.Query("supplier_id"); supplierID != "" {
		list, err := h.purchaseUC.ListBySupplier(c.Context(), supplierID, pageFromQuery(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.purchaseUC.List(c.Context(), c.Query("state"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Confirm POST /api/purchases/:id/confirm
func (h *PurchaseHandler) Confirm(c *fiber.Ctx) error {
	p, err := h.purchaseUC.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// SetPaid POST /api/purchases/:id/paid
func (h *PurchaseHandler) SetPaid(c *fiber.Ctx) error {
	var in struct {
		DatePayment time.Time `json:"date_payment"`
	}
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return badBody(c)
	}
	p, err := h.purchaseUC.SetPaid(c.Context(), c.Params("id"), in.DatePayment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Cancel POST /api/purchases/:id/cancel
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	p, err := h.purchaseUC.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// CreateWithholding POST /api/withholdings
func (h *PurchaseHandler) CreateWithholding(c *fiber.Ctx) error {
	var in dto.CreateWithholdingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	w, err := h.withholdingUC.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// GetWithholding GET /api/withholdings/:id
func (h *PurchaseHandler) GetWithholding(c *fiber.Ctx) error {
	w, err := h.withholdingUC.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

// ListWithholdings GET /api/withholdings?state=&limit=20&offset=0
func (h *PurchaseHandler) ListWithholdings(c *fiber.Ctx) error {
	list, err := h.withholdingUC.List(c.Context(), c.Query("state"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ValidateWithholding POST /api/withholdings/:id/validate
func (h *PurchaseHandler) ValidateWithholding(c *fiber.Ctx) error {
	w, err := h.withholdingUC.Validate(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

// CancelWithholding POST /api/withholdings/:id/cancel
func (h *PurchaseHandler) CancelWithholding(c *fiber.Ctx) error {
	w, err := h.withholdingUC.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}
