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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implémentation du port InvoiceRepository sur PostgreSQL.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construit l'adaptateur de persistance des factures clients.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, number, date, company_id,
	discount_type, discount_rate, discount_fixed, fiscal_stamp,
	apply_withholding_tax, apply_vat_withholding,
	amount_untaxed, discount_amount, amount_after_discount,
	amount_tax, tax7_amount, tax19_amount, tax_custom_amount,
	amount_total, withholding_tax, vat_withholding, total_withholding, net_to_pay,
	state, note, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date, &inv.CompanyID,
		&inv.DiscountType, &inv.DiscountRate, &inv.DiscountFixed, &inv.FiscalStamp,
		&inv.ApplyWithholdingTax, &inv.ApplyVATWithholding,
		&inv.AmountUntaxed, &inv.DiscountAmount, &inv.AmountAfterDiscount,
		&inv.AmountTax, &inv.Tax7Amount, &inv.Tax19Amount, &inv.TaxCustomAmount,
		&inv.AmountTotal, &inv.WithholdingTax, &inv.VATWithholding, &inv.TotalWithholding, &inv.NetToPay,
		&inv.State, &inv.Note, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste une nouvelle facture.
func (r *InvoiceRepo) Create(inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, number, date, company_id,
			discount_type, discount_rate, discount_fixed, fiscal_stamp,
			apply_withholding_tax, apply_vat_withholding,
			amount_untaxed, discount_amount, amount_after_discount,
			amount_tax, tax7_amount, tax19_amount, tax_custom_amount,
			amount_total, withholding_tax, vat_withholding, total_withholding, net_to_pay,
			state, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Number, inv.Date, inv.CompanyID,
		inv.DiscountType, inv.DiscountRate, inv.DiscountFixed, inv.FiscalStamp,
		inv.ApplyWithholdingTax, inv.ApplyVATWithholding,
		inv.AmountUntaxed, inv.DiscountAmount, inv.AmountAfterDiscount,
		inv.AmountTax, inv.Tax7Amount, inv.Tax19Amount, inv.TaxCustomAmount,
		inv.AmountTotal, inv.WithholdingTax, inv.VATWithholding, inv.TotalWithholding, inv.NetToPay,
		inv.State, inv.Note, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLine persiste une ligne de facture.
func (r *InvoiceRepo) CreateLine(line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (
			id, invoice_id, sequence,
			member_id, service_id, reservation_id, destination_id, reference, description,
			quantity, uom, price_ttc, tax_rate, tax_rate_custom,
			price_unit, price_subtotal, price_tax, price_total)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''),
			$8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.InvoiceID, line.Sequence,
		line.MemberID, line.ServiceID, line.ReservationID, line.DestinationID,
		line.Reference, line.Description,
		line.Quantity, line.UOM, line.PriceTTC, line.TaxRate, line.TaxRateCustom,
		line.PriceUnit, line.PriceSubtotal, line.PriceTax, line.PriceTotal,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// GetByID obtient une facture par ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(context.Background(),
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetLines retourne les lignes d'une facture par ordre de séquence.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, sequence,
			COALESCE(member_id, ''), COALESCE(service_id, ''), COALESCE(reservation_id, ''), COALESCE(destination_id, ''),
			reference, description,
			quantity, uom, price_ttc, tax_rate, tax_rate_custom,
			price_unit, price_subtotal, price_tax, price_total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY sequence`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Sequence,
			&l.MemberID, &l.ServiceID, &l.ReservationID, &l.DestinationID,
			&l.Reference, &l.Description,
			&l.Quantity, &l.UOM, &l.PriceTTC, &l.TaxRate, &l.TaxRateCustom,
			&l.PriceUnit, &l.PriceSubtotal, &l.PriceTax, &l.PriceTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List liste les factures filtrées par état si state non vide.
func (r *InvoiceRepo) List(state string, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices WHERE ($1 = '' OR state = $1)
		ORDER BY date DESC, number DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, state, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Update réécrit les totaux dérivés, la remise, les retenues et l'état.
func (r *InvoiceRepo) Update(inv *entity.Invoice) error {
	query := `
		UPDATE invoices SET
			date = $2, company_id = $3,
			discount_type = $4, discount_rate = $5, discount_fixed = $6, fiscal_stamp = $7,
			apply_withholding_tax = $8, apply_vat_withholding = $9,
			amount_untaxed = $10, discount_amount = $11, amount_after_discount = $12,
			amount_tax = $13, tax7_amount = $14, tax19_amount = $15, tax_custom_amount = $16,
			amount_total = $17, withholding_tax = $18, vat_withholding = $19,
			total_withholding = $20, net_to_pay = $21,
			state = $22, note = $23, updated_at = $24
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		inv.ID, inv.Date, inv.CompanyID,
		inv.DiscountType, inv.DiscountRate, inv.DiscountFixed, inv.FiscalStamp,
		inv.ApplyWithholdingTax, inv.ApplyVATWithholding,
		inv.AmountUntaxed, inv.DiscountAmount, inv.AmountAfterDiscount,
		inv.AmountTax, inv.Tax7Amount, inv.Tax19Amount, inv.TaxCustomAmount,
		inv.AmountTotal, inv.WithholdingTax, inv.VATWithholding,
		inv.TotalWithholding, inv.NetToPay,
		inv.State, inv.Note, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// UpdateLine réécrit une ligne recalculée.
func (r *InvoiceRepo) UpdateLine(line *entity.InvoiceLine) error {
	query := `
		UPDATE invoice_lines SET
			sequence = $2,
			member_id = NULLIF($3, ''), service_id = NULLIF($4, ''),
			reservation_id = NULLIF($5, ''), destination_id = NULLIF($6, ''),
			reference = $7, description = $8,
			quantity = $9, uom = $10, price_ttc = $11, tax_rate = $12, tax_rate_custom = $13,
			price_unit = $14, price_subtotal = $15, price_tax = $16, price_total = $17
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.Sequence,
		line.MemberID, line.ServiceID, line.ReservationID, line.DestinationID,
		line.Reference, line.Description,
		line.Quantity, line.UOM, line.PriceTTC, line.TaxRate, line.TaxRateCustom,
		line.PriceUnit, line.PriceSubtotal, line.PriceTax, line.PriceTotal,
	)
	if err != nil {
		return fmt.Errorf("update invoice line: %w", err)
	}
	return nil
}

// DeleteLine supprime une ligne par ID.
func (r *InvoiceRepo) DeleteLine(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM invoice_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice line: %w", err)
	}
	return nil
}

// NextNumber réserve le prochain numéro de facture (FAC-00001).
func (r *InvoiceRepo) NextNumber() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('invoice_number_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next invoice number: %w", err)
	}
	return fmt.Sprintf("FAC-%05d", n), nil
}
