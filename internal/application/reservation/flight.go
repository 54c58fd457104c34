package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// AddFlight rattache un vol à une réservation en brouillon et recalcule le
// prix total. Le vol est créé en état devis.
func (s *Service) AddFlight(ctx context.Context, reservationID string, in dto.CreateFlightRequest) (*dto.FlightResponse, error) {
	res, err := s.draftReservation(reservationID)
	if err != nil {
		return nil, err
	}

	if in.DepartureCity == "" || in.ArrivalCity == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.ArrivalDate.After(in.DepartureDate) {
		return nil, domain.ErrInvalidInput
	}
	if in.SalePrice.LessThan(in.PurchasePrice) {
		return nil, domain.ErrInvalidInput
	}

	flightType := in.FlightType
	if flightType == "" {
		flightType = entity.FlightOneWay
	}
	switch flightType {
	case entity.FlightOneWay, entity.FlightRoundTrip, entity.FlightMulti:
	default:
		return nil, domain.ErrInvalidInput
	}
	if flightType == entity.FlightRoundTrip {
		if in.ReturnDepartureDate == nil || in.ReturnArrivalDate == nil {
			return nil, domain.ErrInvalidInput
		}
		// Le retour ne peut pas décoller avant l'arrivée de l'aller.
		if in.ReturnDepartureDate.Before(in.ArrivalDate) {
			return nil, domain.ErrInvalidInput
		}
		if !in.ReturnArrivalDate.After(*in.ReturnDepartureDate) {
			return nil, domain.ErrInvalidInput
		}
	}

	classType := in.ClassType
	if classType == "" {
		classType = entity.CabinEconomy
	}
	switch classType {
	case entity.CabinEconomy, entity.CabinPremiumEconomy, entity.CabinBusiness, entity.CabinFirst:
	default:
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	flight := &entity.Flight{
		ID:                  uuid.New().String(),
		ReservationID:       res.ID,
		FlightType:          flightType,
		DepartureCity:       in.DepartureCity,
		ArrivalCity:         in.ArrivalCity,
		DepartureDate:       in.DepartureDate,
		ArrivalDate:         in.ArrivalDate,
		FlightNumber:        in.FlightNumber,
		Airline:             in.Airline,
		ReturnDepartureDate: in.ReturnDepartureDate,
		ReturnArrivalDate:   in.ReturnArrivalDate,
		ReturnFlightNumber:  in.ReturnFlightNumber,
		ClassType:           classType,
		BookingReference:    in.BookingReference,
		TicketNumber:        in.TicketNumber,
		PurchasePrice:       in.PurchasePrice,
		SalePrice:           in.SalePrice,
		Status:              entity.FlightQuote,
		SupplierID:          in.SupplierID,
		Note:                in.Note,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.flightRepo.Create(flight); err != nil {
		return nil, err
	}
	if err := s.recompute(res); err != nil {
		return nil, err
	}
	return toFlightResponse(flight), nil
}

// ListFlights liste les vols d'une réservation.
func (s *Service) ListFlights(ctx context.Context, reservationID string) ([]*dto.FlightResponse, error) {
	res, err := s.reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	flights, err := s.flightRepo.ListByReservation(reservationID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FlightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, toFlightResponse(f))
	}
	return out, nil
}

// BookFlight passe un vol de devis à réservé.
func (s *Service) BookFlight(ctx context.Context, reservationID, flightID string) (*dto.FlightResponse, error) {
	return s.transitionFlight(reservationID, flightID, entity.FlightQuote, entity.FlightBooked)
}

// TicketFlight passe un vol de réservé à émis (billet émis).
func (s *Service) TicketFlight(ctx context.Context, reservationID, flightID string) (*dto.FlightResponse, error) {
	return s.transitionFlight(reservationID, flightID, entity.FlightBooked, entity.FlightTicketed)
}

// CancelFlight annule un vol d'une réservation en brouillon. Le vol reste
// dans l'historique mais sort du sous-total vols.
func (s *Service) CancelFlight(ctx context.Context, reservationID, flightID string) (*dto.FlightResponse, error) {
	res, err := s.draftReservation(reservationID)
	if err != nil {
		return nil, err
	}
	flight, err := s.ownedFlight(res.ID, flightID)
	if err != nil {
		return nil, err
	}
	if flight.Status == entity.FlightCancelled {
		return nil, domain.ErrConflict
	}
	flight.Status = entity.FlightCancelled
	flight.UpdatedAt = time.Now()
	if err := s.flightRepo.Update(flight); err != nil {
		return nil, err
	}
	if err := s.recompute(res); err != nil {
		return nil, err
	}
	return toFlightResponse(flight), nil
}

// RemoveFlight supprime un vol d'une réservation en brouillon et recalcule
// le prix total.
func (s *Service) RemoveFlight(ctx context.Context, reservationID, flightID string) error {
	res, err := s.draftReservation(reservationID)
	if err != nil {
		return err
	}
	flight, err := s.ownedFlight(res.ID, flightID)
	if err != nil {
		return err
	}
	if err := s.flightRepo.Delete(flight.ID); err != nil {
		return err
	}
	return s.recompute(res)
}

func (s *Service) transitionFlight(reservationID, flightID, from, to string) (*dto.FlightResponse, error) {
	res, err := s.reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	flight, err := s.ownedFlight(res.ID, flightID)
	if err != nil {
		return nil, err
	}
	if flight.Status != from {
		return nil, domain.ErrConflict
	}
	flight.Status = to
	flight.UpdatedAt = time.Now()
	if err := s.flightRepo.Update(flight); err != nil {
		return nil, err
	}
	return toFlightResponse(flight), nil
}

// draftReservation charge la réservation et vérifie qu'elle est en brouillon.
func (s *Service) draftReservation(id string) (*entity.Reservation, error) {
	res, err := s.reservationRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	if res.Status != entity.ReservationDraft {
		return nil, domain.ErrConflict
	}
	return res, nil
}

// ownedFlight charge le vol et vérifie son rattachement à la réservation.
func (s *Service) ownedFlight(reservationID, flightID string) (*entity.Flight, error) {
	flight, err := s.flightRepo.GetByID(flightID)
	if err != nil {
		return nil, err
	}
	if flight == nil || flight.ReservationID != reservationID {
		return nil, domain.ErrNotFound
	}
	return flight, nil
}

// recompute recalcule les montants dérivés et persiste la réservation.
func (s *Service) recompute(res *entity.Reservation) error {
	res.UpdatedAt = time.Now()
	if err := s.compute(res); err != nil {
		return err
	}
	return s.reservationRepo.Update(res)
}

func toFlightResponse(f *entity.Flight) *dto.FlightResponse {
	return &dto.FlightResponse{
		ID:                  f.ID,
		ReservationID:       f.ReservationID,
		FlightType:          f.FlightType,
		Label:               f.Label(),
		DepartureCity:       f.DepartureCity,
		ArrivalCity:         f.ArrivalCity,
		DepartureDate:       f.DepartureDate,
		ArrivalDate:         f.ArrivalDate,
		FlightNumber:        f.FlightNumber,
		Airline:             f.Airline,
		ReturnDepartureDate: f.ReturnDepartureDate,
		ReturnArrivalDate:   f.ReturnArrivalDate,
		ReturnFlightNumber:  f.ReturnFlightNumber,
		ClassType:           f.ClassType,
		BookingReference:    f.BookingReference,
		TicketNumber:        f.TicketNumber,
		PurchasePrice:       f.PurchasePrice,
		SalePrice:           f.SalePrice,
		Margin:              f.Margin(),
		Status:              f.Status,
		SupplierID:          f.SupplierID,
		Note:                f.Note,
	}
}
