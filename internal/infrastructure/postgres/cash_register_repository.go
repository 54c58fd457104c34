package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo implémentation du port CashRegisterRepository sur PostgreSQL.
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construit l'adaptateur de persistance des caisses.
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

const registerColumns = `
	id, name, code, is_main, COALESCE(main_id, ''), user_id, company_id, state,
	opening_date, opening_user_id, opening_balance,
	closing_date, closing_user_id, closing_balance,
	active, created_at, updated_at`

func scanRegister(row pgx.Row) (*entity.CashRegister, error) {
	var reg entity.CashRegister
	err := row.Scan(
		&reg.ID, &reg.Name, &reg.Code, &reg.IsMain, &reg.MainID, &reg.UserID, &reg.CompanyID, &reg.State,
		&reg.OpeningDate, &reg.OpeningUserID, &reg.OpeningBalance,
		&reg.ClosingDate, &reg.ClosingUserID, &reg.ClosingBalance,
		&reg.Active, &reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// Create persiste une nouvelle caisse.
func (r *CashRegisterRepo) Create(reg *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (
			id, name, code, is_main, main_id, user_id, company_id, state,
			opening_date, opening_user_id, opening_balance,
			closing_date, closing_user_id, closing_balance,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(context.Background(), query,
		reg.ID, reg.Name, reg.Code, reg.IsMain, reg.MainID, reg.UserID, reg.CompanyID, reg.State,
		reg.OpeningDate, reg.OpeningUserID, reg.OpeningBalance,
		reg.ClosingDate, reg.ClosingUserID, reg.ClosingBalance,
		reg.Active, reg.CreatedAt, reg.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cash register: %w", err)
	}
	return nil
}

// GetByID obtient une caisse par ID.
func (r *CashRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	reg, err := scanRegister(r.q.QueryRow(context.Background(),
		`SELECT `+registerColumns+` FROM cash_registers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return reg, nil
}

// GetByCode obtient une caisse par code.
func (r *CashRegisterRepo) GetByCode(code string) (*entity.CashRegister, error) {
	reg, err := scanRegister(r.q.QueryRow(context.Background(),
		`SELECT `+registerColumns+` FROM cash_registers WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register by code: %w", err)
	}
	return reg, nil
}

// GetMainByCompany retourne la caisse principale active de la société.
func (r *CashRegisterRepo) GetMainByCompany(companyID string) (*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + `
		FROM cash_registers WHERE company_id = $1 AND is_main AND active`
	reg, err := scanRegister(r.q.QueryRow(context.Background(), query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get main register: %w", err)
	}
	return reg, nil
}

// ListSubRegisters retourne les sous-caisses actives d'une caisse principale.
func (r *CashRegisterRepo) ListSubRegisters(mainID string) ([]*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + `
		FROM cash_registers WHERE main_id = $1 AND active ORDER BY created_at`
	return r.queryList(query, mainID)
}

// ListOpenMains retourne les caisses principales ouvertes (balayage minuit).
func (r *CashRegisterRepo) ListOpenMains() ([]*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + `
		FROM cash_registers WHERE is_main AND active AND state = $1 ORDER BY created_at`
	return r.queryList(query, entity.RegisterOpened)
}

// List liste les caisses actives avec pagination.
func (r *CashRegisterRepo) List(limit, offset int) ([]*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + `
		FROM cash_registers WHERE active ORDER BY is_main DESC, created_at LIMIT $1 OFFSET $2`
	return r.queryList(query, limit, offset)
}

// Update réécrit la caisse (état, dates et soldes de session inclus).
func (r *CashRegisterRepo) Update(reg *entity.CashRegister) error {
	query := `
		UPDATE cash_registers SET
			name = $2, user_id = $3, state = $4,
			opening_date = $5, opening_user_id = $6, opening_balance = $7,
			closing_date = $8, closing_user_id = $9, closing_balance = $10,
			active = $11, updated_at = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		reg.ID, reg.Name, reg.UserID, reg.State,
		reg.OpeningDate, reg.OpeningUserID, reg.OpeningBalance,
		reg.ClosingDate, reg.ClosingUserID, reg.ClosingBalance,
		reg.Active, reg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash register: %w", err)
	}
	return nil
}

func (r *CashRegisterRepo) queryList(query string, args ...any) ([]*entity.CashRegister, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cash registers: %w", err)
	}
	defer rows.Close()
	var list []*entity.CashRegister
	for rows.Next() {
		reg, err := scanRegister(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash register: %w", err)
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

var _ repository.CashOperationRepository = (*CashOperationRepo)(nil)

// CashOperationRepo implémentation du port CashOperationRepository sur PostgreSQL.
type CashOperationRepo struct {
	q Querier
}

// NewCashOperationRepository construit l'adaptateur de persistance des opérations de caisse.
func NewCashOperationRepository(q Querier) *CashOperationRepo {
	return &CashOperationRepo{q: q}
}

const operationColumns = `
	id, reference, register_id, date, type, amount, payment_method, note,
	invoice_number, quote_number, COALESCE(invoice_id, ''), COALESCE(reservation_id, ''),
	user_id, state, created_at, updated_at`

func scanOperation(row pgx.Row) (*entity.CashOperation, error) {
	var op entity.CashOperation
	err := row.Scan(
		&op.ID, &op.Reference, &op.RegisterID, &op.Date, &op.Type, &op.Amount, &op.PaymentMethod, &op.Note,
		&op.InvoiceNumber, &op.QuoteNumber, &op.InvoiceID, &op.ReservationID,
		&op.UserID, &op.State, &op.CreatedAt, &op.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// Create persiste une nouvelle opération de caisse.
func (r *CashOperationRepo) Create(op *entity.CashOperation) error {
	query := `
		INSERT INTO cash_operations (
			id, reference, register_id, date, type, amount, payment_method, note,
			invoice_number, quote_number, invoice_id, reservation_id,
			user_id, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			NULLIF($11, ''), NULLIF($12, ''), $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Reference, op.RegisterID, op.Date, op.Type, op.Amount, op.PaymentMethod, op.Note,
		op.InvoiceNumber, op.QuoteNumber, op.InvoiceID, op.ReservationID,
		op.UserID, op.State, op.CreatedAt, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cash operation: %w", err)
	}
	return nil
}

// GetByID obtient une opération par ID.
func (r *CashOperationRepo) GetByID(id string) (*entity.CashOperation, error) {
	op, err := scanOperation(r.q.QueryRow(context.Background(),
		`SELECT `+operationColumns+` FROM cash_operations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash operation: %w", err)
	}
	return op, nil
}

// ListByRegister liste les opérations d'une caisse, les plus récentes d'abord.
func (r *CashOperationRepo) ListByRegister(registerID string, limit, offset int) ([]*entity.CashOperation, error) {
	query := `SELECT ` + operationColumns + `
		FROM cash_operations WHERE register_id = $1
		ORDER BY date DESC, reference DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, registerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list cash operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// ListConfirmedSince retourne les opérations confirmées depuis la date
// d'ouverture (calcul du solde de session).
func (r *CashOperationRepo) ListConfirmedSince(registerID string, since time.Time) ([]*entity.CashOperation, error) {
	query := `SELECT ` + operationColumns + `
		FROM cash_operations
		WHERE register_id = $1 AND state = $2 AND date >= $3
		ORDER BY date`
	rows, err := r.q.Query(context.Background(), query, registerID, entity.OperationConfirmed, since)
	if err != nil {
		return nil, fmt.Errorf("list confirmed operations: %w", err)
	}
	defer rows.Close()
	return collectOperations(rows)
}

// Update réécrit l'opération (changement d'état draft -> confirmed/cancelled).
func (r *CashOperationRepo) Update(op *entity.CashOperation) error {
	query := `
		UPDATE cash_operations SET
			date = $2, type = $3, amount = $4, payment_method = $5, note = $6,
			invoice_number = $7, quote_number = $8,
			invoice_id = NULLIF($9, ''), reservation_id = NULLIF($10, ''),
			user_id = $11, state = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		op.ID, op.Date, op.Type, op.Amount, op.PaymentMethod, op.Note,
		op.InvoiceNumber, op.QuoteNumber, op.InvoiceID, op.ReservationID,
		op.UserID, op.State, op.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update cash operation: %w", err)
	}
	return nil
}

// NextReference réserve la prochaine référence d'opération (OP-00042).
func (r *CashOperationRepo) NextReference() (string, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('cash_operation_reference_seq')`).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("next operation reference: %w", err)
	}
	return fmt.Sprintf("OP-%05d", n), nil
}

func collectOperations(rows pgx.Rows) ([]*entity.CashOperation, error) {
	var list []*entity.CashOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cash operation: %w", err)
		}
		list = append(list, op)
	}
	return list, rows.Err()
}
