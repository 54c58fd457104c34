package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
)

// InvoiceHandler gère les factures clients (protégé).
type InvoiceHandler struct {
	uc *billing.InvoiceUseCase
}

// NewInvoiceHandler construit le handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// Create POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// List GET /api/invoices?state=&limit=20&offset=0
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("state"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateSettings PUT /api/invoices/:id (remise, timbre, retenues; brouillon)
func (h *InvoiceHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.UpdateSettings(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// AddLine POST /api/invoices/:id/lines
func (h *InvoiceHandler) AddLine(c *fiber.Ctx) error {
	var in dto.InvoiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.AddLine(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// UpdateLine PUT /api/invoices/:id/lines/:lineID
func (h *InvoiceHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.InvoiceLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.UpdateLine(c.Context(), c.Params("id"), c.Params("lineID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// RemoveLine DELETE /api/invoices/:id/lines/:lineID
func (h *InvoiceHandler) RemoveLine(c *fiber.Ctx) error {
	inv, err := h.uc.RemoveLine(c.Context(), c.Params("id"), c.Params("lineID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// FillLines POST /api/invoices/:id/fill
// Génère une ligne par réservation facturable des membres donnés.
func (h *InvoiceHandler) FillLines(c *fiber.Ctx) error {
	var in dto.FillLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.FillLines(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Confirm POST /api/invoices/:id/confirm
func (h *InvoiceHandler) Confirm(c *fiber.Ctx) error {
	inv, err := h.uc.Confirm(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// SetPaid POST /api/invoices/:id/paid (règlement hors caisse)
func (h *InvoiceHandler) SetPaid(c *fiber.Ctx) error {
	inv, err := h.uc.SetPaid(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Cancel POST /api/invoices/:id/cancel
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	inv, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// BackToDraft POST /api/invoices/:id/draft
func (h *InvoiceHandler) BackToDraft(c *fiber.Ctx) error {
	inv, err := h.uc.BackToDraft(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Pay POST /api/invoices/:id/pay
// Encaisse le net à payer dans une caisse ouverte (transactionnel).
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	op, err := h.uc.Pay(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(op)
}

// DownloadPDF GET /api/invoices/:id/pdf
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.uc.DownloadPDF(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
