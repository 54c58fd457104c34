package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// États du workflow facture (client et fournisseur).
const (
	InvoiceDraft     = "draft"
	InvoiceConfirmed = "confirmed"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancel"
)

// Types de remise sur le total HT.
const (
	DiscountNone    = "none"
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Invoice représente une facture client de l'agence.
//
// Les prix des lignes sont saisis TTC (prix payé par le voyageur); tous les
// montants dérivés sont recalculés par le moteur fiscal à chaque modification
// des lignes, de la remise ou des retenues, puis stockés ici.
type Invoice struct {
	ID        string
	Number    string // ex: FAC-00001
	Date      time.Time
	CompanyID string // société cliente facturée

	// Remise appliquée sur le total HT.
	DiscountType  string          // none | percent | fixed
	DiscountRate  decimal.Decimal // % si percent
	DiscountFixed decimal.Decimal // montant si fixed

	FiscalStamp decimal.Decimal // timbre fiscal, défaut 1.000 TND

	// Retenues à la source, élections indépendantes.
	ApplyWithholdingTax  bool // retenue 1% sur TTC hors timbre
	ApplyVATWithholding  bool // retenue 25% sur la TVA

	// Totaux dérivés (voir tax.ClientConvention).
	AmountUntaxed       decimal.Decimal
	DiscountAmount      decimal.Decimal
	AmountAfterDiscount decimal.Decimal
	AmountTax           decimal.Decimal
	Tax7Amount          decimal.Decimal
	Tax19Amount         decimal.Decimal
	TaxCustomAmount     decimal.Decimal
	AmountTotal         decimal.Decimal
	WithholdingTax      decimal.Decimal
	VATWithholding      decimal.Decimal
	TotalWithholding    decimal.Decimal
	NetToPay            decimal.Decimal

	State     string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Taux de TVA des lignes.
const (
	TaxRate7      = "7"
	TaxRate19     = "19"
	TaxRateCustom = "custom"
)

// InvoiceLine est une ligne de facture client. Le prix est saisi TTC;
// HT et TVA sont dérivés par division (voir tax.ClientConvention).
// Une ligne porte soit un membre, soit un service.
type InvoiceLine struct {
	ID        string
	InvoiceID string
	Sequence  int

	MemberID      string // membre facturé (optionnel si service)
	ServiceID     string // service facturé (optionnel si membre)
	ReservationID string // réservation liée (optionnel)
	DestinationID string // voyage (optionnel)
	Reference     string // ex: P-00001
	Description   string

	Quantity      decimal.Decimal
	UOM           string // unité, ex: "j" pour jour
	PriceTTC      decimal.Decimal
	TaxRate       string          // "7" | "19" | "custom"
	TaxRateCustom decimal.Decimal // taux en % si custom

	// Montants dérivés.
	PriceUnit     decimal.Decimal // PU HT = TTC / (1 + taux)
	PriceSubtotal decimal.Decimal // total HT
	PriceTax      decimal.Decimal // montant TVA
	PriceTotal    decimal.Decimal // total TTC
}
