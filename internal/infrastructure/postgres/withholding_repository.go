package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.WithholdingRepository = (*WithholdingRepo)(nil)

// WithholdingRepo implémentation du port WithholdingRepository sur PostgreSQL.
type WithholdingRepo struct {
	q Querier
}

// NewWithholdingRepository construit l'adaptateur de persistance des retenues fournisseur.
func NewWithholdingRepository(q Querier) *WithholdingRepo {
	return &WithholdingRepo{q: q}
}

const withholdingColumns = `
	id, number, date_payment, date_withholding, supplier_id, COALESCE(purchase_id, ''),
	amount_gross, withholding_rate, amount_withholding,
	state, note, created_at, updated_at`

func scanWithholding(row pgx.Row) (*entity.Withholding, error) {
	var w entity.Withholding
	err := row.Scan(
		&w.ID, &w.Number, &w.DatePayment, &w.DateWithholding, &w.SupplierID, &w.PurchaseID,
		&w.AmountGross, &w.WithholdingRate, &w.AmountWithholding,
		&w.State, &w.Note, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create persiste un nouveau certificat de retenue.
func (r *WithholdingRepo) Create(w *entity.Withholding) error {
	query := `
		INSERT INTO withholdings (
			id, number, date_payment, date_withholding, supplier_id, purchase_id,
			amount_gross, withholding_rate, amount_withholding,
			state, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.Number, w.DatePayment, w.DateWithholding, w.SupplierID, w.PurchaseID,
		w.AmountGross, w.WithholdingRate, w.AmountWithholding,
		w.State, w.Note, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert withholding: %w", err)
	}
	return nil
}

// GetByID obtient un certificat de retenue par ID.
func (r *WithholdingRepo) GetByID(id string) (*entity.Withholding, error) {
	w, err := scanWithholding(r.q.QueryRow(context.Background(),
		`SELECT `+withholdingColumns+` FROM withholdings WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get withholding: %w", err)
	}
	return w, nil
}

// List liste les certificats filtrés par état si state non vide.
func (r *WithholdingRepo) List(state string, limit, offset int) ([]*entity.Withholding, error) {
	query := `SELECT ` + withholdingColumns + `
		FROM withholdings WHERE ($1 = '' OR state = $1)
		ORDER BY date_payment DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list withholdings: %w", err)
	}
	defer rows.Close()
	var list []*entity.Withholding
	for rows.Next() {
		w, err := scanWithholding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan withholding: %w", err)
		}
		list = append(list, w)
	}
	return list, rows.Err()
}

// Update réécrit le certificat de retenue.
func (r *WithholdingRepo) Update(w *entity.Withholding) error {
	query := `
		UPDATE withholdings SET
			date_payment = $2, date_withholding = $3, supplier_id = $4, purchase_id = NULLIF($5, ''),
			amount_gross = $6, withholding_rate = $7, amount_withholding = $8,
			state = $9, note = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		w.ID, w.DatePayment, w.DateWithholding, w.SupplierID, w.PurchaseID,
		w.AmountGross, w.WithholdingRate, w.AmountWithholding,
		w.State, w.Note, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update withholding: %w", err)
	}
	return nil
}

// NextNumber réserve le prochain numéro de certificat (RET-00001).
func (r *WithholdingRepo) NextNumber() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('withholding_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next withholding number: %w", err)
	}
	return fmt.Sprintf("RET-%05d", n), nil
}
