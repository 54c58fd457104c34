package repository

import "github.com/rayen-omar/travel-pro-version1/internal/domain/entity"

// ReservationRepository définit le port de persistance des réservations.
type ReservationRepository interface {
	Create(reservation *entity.Reservation) error
	GetByID(id string) (*entity.Reservation, error)
	ListByMember(memberID string, limit, offset int) ([]*entity.Reservation, error)
	List(status string, limit, offset int) ([]*entity.Reservation, error)
	Update(reservation *entity.Reservation) error
	// ListBillable retourne les réservations confirmées ou terminées d'un
	// membre, avec un prix positif, non liées à une ligne de facture non
	// annulée. Annuler une facture rend ses réservations refacturables.
	ListBillable(memberID string) ([]*entity.Reservation, error)
	// NextReference réserve la prochaine référence de séquence (RES-00042).
	NextReference() (string, error)
}
