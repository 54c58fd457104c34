package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/application/member"
)

// MemberHandler gère les membres et leur crédit (protégé).
type MemberHandler struct {
	memberUC *member.Service
	creditUC *credit.Service
}

// NewMemberHandler construit le handler.
func NewMemberHandler(memberUC *member.Service, creditUC *credit.Service) *MemberHandler {
	return &MemberHandler{memberUC: memberUC, creditUC: creditUC}
}

// Create POST /api/members
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.memberUC.CreateMember(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// GetByID GET /api/members/:id
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.memberUC.GetMember(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// List GET /api/members?company_id=&limit=20&offset=0
func (h *MemberHandler) List(c *fiber.Ctx) error {
	list, err := h.memberUC.ListMembers(c.Context(), c.Query("company_id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/members/:id
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	m, err := h.memberUC.UpdateMember(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// Archive DELETE /api/members/:id
// L'historique crédit du membre est conservé.
func (h *MemberHandler) Archive(c *fiber.Ctx) error {
	if err := h.memberUC.ArchiveMember(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Recharge POST /api/members/:id/credit
func (h *MemberHandler) Recharge(c *fiber.Ctx) error {
	var in dto.RechargeCreditRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	entry, err := h.creditUC.Recharge(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// CreditHistory GET /api/members/:id/credit?limit=20&offset=0
func (h *MemberHandler) CreditHistory(c *fiber.Ctx) error {
	history, err := h.creditUC.History(c.Context(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(history)
}
