package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types de facture fournisseur.
const (
	PurchaseSupplier = "supplier"
	PurchaseHotel    = "hotel"
	PurchasePlatform = "platform"
)

// Purchase représente une facture fournisseur.
//
// Côté achat la convention fiscale est différente du côté client:
// TVA = TTC × taux puis HT = TTC − TVA (soustraction, pas division).
// Les deux conventions sont volontairement distinctes, voir tax.SupplierConvention.
type Purchase struct {
	ID           string
	Number       string // ex: FAC-FOUR-00001
	Date         time.Time
	PurchaseType string // supplier | hotel | platform
	SupplierID   string

	ServiceIDs    []string        // services du fournisseur retenus
	AmountTTC     decimal.Decimal // montant TTC saisi
	TaxRate       string          // "0" | "7" | "13" | "19"
	FiscalStamp   decimal.Decimal // timbre fiscal, défaut 1.000 TND
	WithholdingRate decimal.Decimal // taux retenue à la source, défaut 1

	// Montants dérivés (voir tax.SupplierConvention).
	AmountUntaxed     decimal.Decimal // HT = TTC − TVA
	AmountTax         decimal.Decimal
	AmountTotal       decimal.Decimal // HT + TVA + timbre
	AmountWithholding decimal.Decimal // HT × taux retenue
	AmountServed      decimal.Decimal // HT − retenue

	ReservationID string // réservation liée (optionnel)
	DatePayment   *time.Time
	State         string
	Note          string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// États des retenues fournisseur.
const (
	WithholdingDraft     = "draft"
	WithholdingDone      = "done"
	WithholdingCancelled = "cancel"
)

// Withholding est un certificat de retenue à la source versée pour un
// fournisseur, indépendant d'une facture.
type Withholding struct {
	ID              string
	Number          string // ex: RET-00001
	DatePayment     time.Time
	DateWithholding *time.Time
	SupplierID      string
	PurchaseID      string // achat lié (optionnel)

	AmountGross       decimal.Decimal
	WithholdingRate   decimal.Decimal // défaut 1
	AmountWithholding decimal.Decimal // brut × taux / 100

	State     string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComputeWithholding calcule le montant retenu depuis le brut.
func (w *Withholding) ComputeWithholding() decimal.Decimal {
	return w.AmountGross.Mul(w.WithholdingRate).Div(decimal.NewFromInt(100))
}
