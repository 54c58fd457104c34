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

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implémentation du port PurchaseRepository sur PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construit l'adaptateur de persistance des factures fournisseurs.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `
	id, number, date, purchase_type, supplier_id, service_ids,
	amount_ttc, tax_rate, fiscal_stamp, withholding_rate,
	amount_untaxed, amount_tax, amount_total, amount_withholding, amount_served,
	COALESCE(reservation_id, ''), date_payment, state, note, description, created_at, updated_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(
		&p.ID, &p.Number, &p.Date, &p.PurchaseType, &p.SupplierID, &p.ServiceIDs,
		&p.AmountTTC, &p.TaxRate, &p.FiscalStamp, &p.WithholdingRate,
		&p.AmountUntaxed, &p.AmountTax, &p.AmountTotal, &p.AmountWithholding, &p.AmountServed,
		&p.ReservationID, &p.DatePayment, &p.State, &p.Note, &p.Description, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste une nouvelle facture fournisseur.
func (r *PurchaseRepo) Create(p *entity.Purchase) error {
	query := `
		INSERT INTO purchases (
			id, number, date, purchase_type, supplier_id, service_ids,
			amount_ttc, tax_rate, fiscal_stamp, withholding_rate,
			amount_untaxed, amount_tax, amount_total, amount_withholding, amount_served,
			reservation_id, date_payment, state, note, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			NULLIF($16, ''), $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Number, p.Date, p.PurchaseType, p.SupplierID, p.ServiceIDs,
		p.AmountTTC, p.TaxRate, p.FiscalStamp, p.WithholdingRate,
		p.AmountUntaxed, p.AmountTax, p.AmountTotal, p.AmountWithholding, p.AmountServed,
		p.ReservationID, p.DatePayment, p.State, p.Note, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// GetByID obtient une facture fournisseur par ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	p, err := scanPurchase(r.q.QueryRow(context.Background(),
		`SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListBySupplier liste les achats d'un fournisseur.
func (r *PurchaseRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases WHERE supplier_id = $1
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.queryList(query, supplierID, limit, offset)
}

// List liste les achats filtrés par état si state non vide.
func (r *PurchaseRepo) List(state string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + `
		FROM purchases WHERE ($1 = '' OR state = $1)
		ORDER BY date DESC LIMIT $2 OFFSET $3`
	return r.queryList(query, state, limit, offset)
}

// Update réécrit la facture fournisseur.
func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	query := `
		UPDATE purchases SET
			date = $2, purchase_type = $3, supplier_id = $4, service_ids = $5,
			amount_ttc = $6, tax_rate = $7, fiscal_stamp = $8, withholding_rate = $9,
			amount_untaxed = $10, amount_tax = $11, amount_total = $12,
			amount_withholding = $13, amount_served = $14,
			reservation_id = NULLIF($15, ''), date_payment = $16,
			state = $17, note = $18, description = $19, updated_at = $20
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.Date, p.PurchaseType, p.SupplierID, p.ServiceIDs,
		p.AmountTTC, p.TaxRate, p.FiscalStamp, p.WithholdingRate,
		p.AmountUntaxed, p.AmountTax, p.AmountTotal,
		p.AmountWithholding, p.AmountServed,
		p.ReservationID, p.DatePayment,
		p.State, p.Note, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	return nil
}

// NextNumber réserve le prochain numéro d'achat (FAC-FOUR-00001).
func (r *PurchaseRepo) NextNumber() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('purchase_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next purchase number: %w", err)
	}
	return fmt.Sprintf("FAC-FOUR-%05d", n), nil
}

func (r *PurchaseRepo) queryList(query string, args ...any) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
