package reservation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// AddPassenger ajoute un voyageur à une réservation en brouillon. La
// cohérence avec la répartition adultes/enfants/bébés est vérifiée à la
// confirmation, pas à l'ajout, pour laisser saisir la liste progressivement.
func (s *Service) AddPassenger(ctx context.Context, reservationID string, in dto.CreatePassengerRequest) (*dto.PassengerResponse, error) {
	res, err := s.draftReservation(reservationID)
	if err != nil {
		return nil, err
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.BirthDate.IsZero() || in.BirthDate.After(time.Now()) {
		return nil, domain.ErrInvalidInput
	}

	count, err := s.passengerRepo.CountByReservation(res.ID)
	if err != nil {
		return nil, err
	}
	if count >= res.Participants() {
		return nil, domain.ErrPassengerMismatch
	}

	now := time.Now()
	passenger := &entity.Passenger{
		ID:             uuid.New().String(),
		ReservationID:  res.ID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		BirthDate:      in.BirthDate,
		Gender:         in.Gender,
		Nationality:    in.Nationality,
		PassportNumber: in.PassportNumber,
		PassportExpiry: in.PassportExpiry,
		Email:          in.Email,
		Phone:          in.Phone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.passengerRepo.Create(passenger); err != nil {
		return nil, err
	}
	return s.toPassengerResponse(passenger, res), nil
}

// ListPassengers liste les voyageurs d'une réservation.
func (s *Service) ListPassengers(ctx context.Context, reservationID string) ([]*dto.PassengerResponse, error) {
	res, err := s.reservationRepo.GetByID(reservationID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, domain.ErrNotFound
	}
	passengers, err := s.passengerRepo.ListByReservation(reservationID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PassengerResponse, 0, len(passengers))
	for _, p := range passengers {
		out = append(out, s.toPassengerResponse(p, res))
	}
	return out, nil
}

// RemovePassenger retire un voyageur d'une réservation en brouillon.
func (s *Service) RemovePassenger(ctx context.Context, reservationID, passengerID string) error {
	res, err := s.draftReservation(reservationID)
	if err != nil {
		return err
	}
	passenger, err := s.passengerRepo.GetByID(passengerID)
	if err != nil {
		return err
	}
	if passenger == nil || passenger.ReservationID != res.ID {
		return domain.ErrNotFound
	}
	return s.passengerRepo.Delete(passenger.ID)
}

func (s *Service) toPassengerResponse(p *entity.Passenger, res *entity.Reservation) *dto.PassengerResponse {
	return &dto.PassengerResponse{
		ID:             p.ID,
		ReservationID:  p.ReservationID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		BirthDate:      p.BirthDate,
		Type:           p.Type(res.CheckIn),
		Gender:         p.Gender,
		Nationality:    p.Nationality,
		PassportNumber: p.PassportNumber,
		PassportExpiry: p.PassportExpiry,
		Email:          p.Email,
		Phone:          p.Phone,
	}
}
