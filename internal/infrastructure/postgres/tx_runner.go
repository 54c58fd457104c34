package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/reservation"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ reservation.TxRunner = (*TxRunner)(nil)
var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner exécute des callbacks dans une transaction PostgreSQL, avec des
// dépôts attachés à la transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construit le runner avec le pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunReservation ouvre une transaction pour la confirmation ou l'annulation
// d'une réservation: l'écriture crédit et le changement d'état sont commités
// ensemble ou pas du tout (crédit insuffisant = aucune écriture).
func (r *TxRunner) RunReservation(ctx context.Context, fn func(
	creditRepo repository.CreditRepository,
	reservationRepo repository.ReservationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	creditRepo := NewCreditRepository(tx)
	reservationRepo := NewReservationRepository(tx)

	if err := fn(creditRepo, reservationRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunBilling ouvre une transaction pour l'encaissement d'une facture:
// l'opération de caisse et le passage à l'état payé sont atomiques.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	reservationRepo repository.ReservationRepository,
	registerRepo repository.CashRegisterRepository,
	opRepo repository.CashOperationRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoiceRepo := NewInvoiceRepository(tx)
	reservationRepo := NewReservationRepository(tx)
	registerRepo := NewCashRegisterRepository(tx)
	opRepo := NewCashOperationRepository(tx)

	if err := fn(invoiceRepo, reservationRepo, registerRepo, opRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
