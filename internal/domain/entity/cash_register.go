package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// États d'une caisse.
const (
	RegisterClosed = "closed"
	RegisterOpened = "opened"
)

// Une caisse principale ne peut avoir que deux sous-caisses.
const MaxSubRegisters = 2

// CashRegister représente une caisse (principale ou sous-caisse).
//
// Hiérarchie: exactement une caisse principale par société cliente de caisse,
// au plus deux sous-caisses rattachées. Une sous-caisse ne peut ouvrir que si
// sa principale est ouverte; la principale ne peut fermer tant qu'une
// sous-caisse est ouverte.
type CashRegister struct {
	ID        string
	Name      string
	Code      string // unique
	IsMain    bool
	MainID    string // caisse principale (requis si !IsMain)
	UserID    string // responsable
	CompanyID string

	State string // closed | opened

	OpeningDate    *time.Time
	OpeningUserID  string
	OpeningBalance decimal.Decimal

	ClosingDate    *time.Time
	ClosingUserID  string
	ClosingBalance decimal.Decimal

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Types et états d'opération de caisse.
const (
	OperationReceipt = "receipt"
	OperationExpense = "expense"

	OperationDraft     = "draft"
	OperationConfirmed = "confirmed"
	OperationCancelled = "cancelled"
)

// Modes de paiement.
const (
	PaymentCash         = "cash"
	PaymentCheck        = "check"
	PaymentMobileWallet = "mobile_wallet"
	PaymentCard         = "card"
	PaymentTransfer     = "transfer"
)

// CashOperation est une recette ou une dépense d'une caisse. Seules les
// opérations confirmées entrent dans le solde.
type CashOperation struct {
	ID            string
	Reference     string // ex: OP-00042
	RegisterID    string
	Date          time.Time
	Type          string // receipt | expense
	Amount        decimal.Decimal
	PaymentMethod string
	Note          string
	InvoiceNumber string
	QuoteNumber   string
	InvoiceID     string
	ReservationID string
	UserID        string
	State         string // draft | confirmed | cancelled
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RegisterBalance calcule le solde: ouverture + recettes − dépenses confirmées.
func RegisterBalance(opening decimal.Decimal, ops []*CashOperation) decimal.Decimal {
	balance := opening
	for _, op := range ops {
		if op.State != OperationConfirmed {
			continue
		}
		switch op.Type {
		case OperationReceipt:
			balance = balance.Add(op.Amount)
		case OperationExpense:
			balance = balance.Sub(op.Amount)
		}
	}
	return balance
}
