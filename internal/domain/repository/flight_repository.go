package repository

import "github.com/rayen-omar/travel-pro-version1/internal/domain/entity"

// FlightRepository définit le port de persistance des vols.
type FlightRepository interface {
	Create(flight *entity.Flight) error
	GetByID(id string) (*entity.Flight, error)
	ListByReservation(reservationID string) ([]*entity.Flight, error)
	Update(flight *entity.Flight) error
	Delete(id string) error
}

// PassengerRepository définit le port de persistance des passagers.
type PassengerRepository interface {
	Create(passenger *entity.Passenger) error
	GetByID(id string) (*entity.Passenger, error)
	ListByReservation(reservationID string) ([]*entity.Passenger, error)
	CountByReservation(reservationID string) (int, error)
	Delete(id string) error
}
