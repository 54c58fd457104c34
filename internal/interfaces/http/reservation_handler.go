package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/application/reservation"
)

// ReservationHandler gère le cycle de vie des réservations (protégé).
type ReservationHandler struct {
	uc *reservation.Service
}

// NewReservationHandler construit le handler.
func NewReservationHandler(uc *reservation.Service) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Create POST /api/reservations
func (h *ReservationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetByID GET /api/reservations/:id
func (h *ReservationHandler) GetByID(c *fiber.Ctx) error {
	res, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// List GET /api/reservations?status=&limit=20&offset=0
func (h *ReservationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListByMember GET /api/members/:id/reservations
func (h *ReservationHandler) ListByMember(c *fiber.Ctx) error {
	list, err := h.uc.ListByMember(c.Context(), c.Params("id"), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Update PUT /api/reservations/:id (brouillon uniquement)
func (h *ReservationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Confirm POST /api/reservations/:id/confirm
// Fige le crédit utilisé: min(solde, total) si use_credit.
func (h *ReservationHandler) Confirm(c *fiber.Ctx) error {
	res, err := h.uc.Confirm(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Done POST /api/reservations/:id/done
func (h *ReservationHandler) Done(c *fiber.Ctx) error {
	res, err := h.uc.Done(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// Cancel POST /api/reservations/:id/cancel
// Rembourse exactement le crédit enregistré pour la réservation.
func (h *ReservationHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Cancel(c.Context(), c.Params("id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// BackToDraft POST /api/reservations/:id/draft
func (h *ReservationHandler) BackToDraft(c *fiber.Ctx) error {
	res, err := h.uc.BackToDraft(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// AddFlight POST /api/reservations/:id/flights (brouillon uniquement)
func (h *ReservationHandler) AddFlight(c *fiber.Ctx) error {
	var in dto.CreateFlightRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	flight, err := h.uc.AddFlight(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(flight)
}

// ListFlights GET /api/reservations/:id/flights
func (h *ReservationHandler) ListFlights(c *fiber.Ctx) error {
	list, err := h.uc.ListFlights(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// BookFlight POST /api/reservations/:id/flights/:flight_id/book
func (h *ReservationHandler) BookFlight(c *fiber.Ctx) error {
	flight, err := h.uc.BookFlight(c.Context(), c.Params("id"), c.Params("flight_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(flight)
}

// TicketFlight POST /api/reservations/:id/flights/:flight_id/ticket
func (h *ReservationHandler) TicketFlight(c *fiber.Ctx) error {
	flight, err := h.uc.TicketFlight(c.Context(), c.Params("id"), c.Params("flight_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(flight)
}

// CancelFlight POST /api/reservations/:id/flights/:flight_id/cancel
func (h *ReservationHandler) CancelFlight(c *fiber.Ctx) error {
	flight, err := h.uc.CancelFlight(c.Context(), c.Params("id"), c.Params("flight_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(flight)
}

// RemoveFlight DELETE /api/reservations/:id/flights/:flight_id
func (h *ReservationHandler) RemoveFlight(c *fiber.Ctx) error {
	if err := h.uc.RemoveFlight(c.Context(), c.Params("id"), c.Params("flight_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddPassenger POST /api/reservations/:id/passengers (brouillon uniquement)
func (h *ReservationHandler) AddPassenger(c *fiber.Ctx) error {
	var in dto.CreatePassengerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	passenger, err := h.uc.AddPassenger(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(passenger)
}

// ListPassengers GET /api/reservations/:id/passengers
func (h *ReservationHandler) ListPassengers(c *fiber.Ctx) error {
	list, err := h.uc.ListPassengers(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// RemovePassenger DELETE /api/reservations/:id/passengers/:passenger_id
func (h *ReservationHandler) RemovePassenger(c *fiber.Ctx) error {
	if err := h.uc.RemovePassenger(c.Context(), c.Params("id"), c.Params("passenger_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
