package repository

import (
	"github.com/shopspring/decimal"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// CreditRepository définit le port de persistance de l'historique crédit.
//
// Le port est volontairement append-only: pas d'Update ni de Delete. Une
// correction est une nouvelle écriture de signe opposé. La cohérence
// lecture-après-écriture dans une même transaction est garantie par le
// collaborateur de persistance (repos attachés à la même tx).
type CreditRepository interface {
	// Append ajoute une écriture. Seule opération d'écriture du port.
	Append(entry *entity.CreditEntry) error
	// Balance retourne la somme de toutes les écritures du membre.
	Balance(memberID string) (decimal.Decimal, error)
	// History retourne les écritures par date décroissante, à date égale
	// par ordre d'insertion décroissant (la plus récente d'abord).
	History(memberID string, limit, offset int) ([]*entity.CreditEntry, error)
	// FindByReservation retourne les écritures d'un type donné liées à une
	// réservation (garde d'idempotence usage/refund).
	FindByReservation(reservationID, kind string) ([]*entity.CreditEntry, error)
}
