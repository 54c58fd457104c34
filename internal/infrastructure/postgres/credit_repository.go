package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.CreditRepository = (*CreditRepo)(nil)

// CreditRepo implémentation du port CreditRepository sur PostgreSQL.
//
// La table credit_entries est strictement append-only: le dépôt n'expose ni
// UPDATE ni DELETE. Le solde est toujours calculé par agrégation, jamais lu
// d'une colonne stockée.
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construit l'adaptateur de persistance de l'historique crédit.
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

// Append ajoute une écriture à l'historique. seq (BIGSERIAL) porte l'ordre
// d'insertion, utilisé pour départager les écritures de même date.
func (r *CreditRepo) Append(entry *entity.CreditEntry) error {
	query := `
		INSERT INTO credit_entries (id, member_id, date, amount, kind, reservation_id, note)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.MemberID, entry.Date, entry.Amount, entry.Kind,
		entry.ReservationID, entry.Note,
	)
	if err != nil {
		return fmt.Errorf("append credit entry: %w", err)
	}
	return nil
}

// Balance retourne la somme de toutes les écritures du membre.
func (r *CreditRepo) Balance(memberID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM credit_entries WHERE member_id = $1`,
		memberID,
	).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("credit balance: %w", err)
	}
	return balance, nil
}

// History retourne les écritures par date décroissante, à date égale la plus
// récemment insérée d'abord.
func (r *CreditRepo) History(memberID string, limit, offset int) ([]*entity.CreditEntry, error) {
	query := `
		SELECT id, member_id, date, amount, kind, COALESCE(reservation_id, ''), note
		FROM credit_entries
		WHERE member_id = $1
		ORDER BY date DESC, seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, memberID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("credit history: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditEntry
	for rows.Next() {
		var e entity.CreditEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Date, &e.Amount, &e.Kind,
			&e.ReservationID, &e.Note); err != nil {
			return nil, fmt.Errorf("scan credit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// FindByReservation retourne les écritures d'un type donné liées à une
// réservation (garde d'idempotence usage/refund).
func (r *CreditRepo) FindByReservation(reservationID, kind string) ([]*entity.CreditEntry, error) {
	query := `
		SELECT id, member_id, date, amount, kind, COALESCE(reservation_id, ''), note
		FROM credit_entries
		WHERE reservation_id = $1 AND kind = $2
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, reservationID, kind)
	if err != nil {
		return nil, fmt.Errorf("credit entries by reservation: %w", err)
	}
	defer rows.Close()
	var list []*entity.CreditEntry
	for rows.Next() {
		var e entity.CreditEntry
		if err := rows.Scan(&e.ID, &e.MemberID, &e.Date, &e.Amount, &e.Kind,
			&e.ReservationID, &e.Note); err != nil {
			return nil, fmt.Errorf("scan credit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
