package billing

import (
	"context"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

// BillingTxRunner exécute fn dans une transaction couvrant factures,
// réservations et opérations de caisse.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		reservationRepo repository.ReservationRepository,
		registerRepo repository.CashRegisterRepository,
		opRepo repository.CashOperationRepository,
	) error) error
}

// SellerInfo identité vendeur de l'agence, injectée au rendu PDF depuis la
// configuration (jamais stockée avec la facture).
type SellerInfo struct {
	Name     string
	Address  string
	Phone    string
	Mobile   string
	Email    string
	VAT      string
	BankName string
	BankIBAN string
}

// InvoiceLineForPDF est une ligne enrichie des libellés pour le rendu.
type InvoiceLineForPDF struct {
	entity.InvoiceLine
	SubjectName string // nom du membre ou du service
	RateLabel   string // ex: "7%"
}

// InvoicePDFGenerator génère la représentation PDF d'une facture client.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		inv *entity.Invoice,
		company *entity.Company,
		seller SellerInfo,
		lines []InvoiceLineForPDF,
		amountInWords string,
	) ([]byte, error)
}
