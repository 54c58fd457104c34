package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body pour POST /api/invoices.
type CreateInvoiceRequest struct {
	CompanyID           string               `json:"company_id"`
	Date                time.Time            `json:"date"`
	DiscountType        string               `json:"discount_type,omitempty"` // none | percent | fixed
	DiscountRate        decimal.Decimal      `json:"discount_rate,omitempty"`
	DiscountFixed       decimal.Decimal      `json:"discount_fixed,omitempty"`
	FiscalStamp         decimal.Decimal      `json:"fiscal_stamp,omitempty"`
	ApplyWithholdingTax bool                 `json:"apply_withholding_tax"`
	ApplyVATWithholding bool                 `json:"apply_vat_withholding"`
	Lines               []InvoiceLineRequest `json:"lines,omitempty"`
	Note                string               `json:"note,omitempty"`
}

// InvoiceLineRequest ligne de facture. PriceTTC est le prix unitaire TTC,
// le HT et la taxe sont dérivés par division.
type InvoiceLineRequest struct {
	MemberID      string          `json:"member_id,omitempty"`
	ServiceID     string          `json:"service_id,omitempty"`
	ReservationID string          `json:"reservation_id,omitempty"`
	DestinationID string          `json:"destination_id,omitempty"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom,omitempty"`
	PriceTTC      decimal.Decimal `json:"price_ttc"`
	TaxRate       string          `json:"tax_rate"` // "7" | "19" | "custom"
	TaxRateCustom decimal.Decimal `json:"tax_rate_custom,omitempty"`
}

// FillLinesRequest body pour POST /api/invoices/:id/fill-lines.
// Génère les lignes depuis les réservations facturables des adhérents donnés.
type FillLinesRequest struct {
	MemberIDs []string `json:"member_ids"`
	TaxRate   string   `json:"tax_rate,omitempty"` // défaut "7"
}

// InvoiceResponse facture avec totaux dérivés.
type InvoiceResponse struct {
	ID                  string                `json:"id"`
	Number              string                `json:"number"`
	CompanyID           string                `json:"company_id"`
	CompanyName         string                `json:"company_name,omitempty"`
	Date                time.Time             `json:"date"`
	State               string                `json:"state"`
	DiscountType        string                `json:"discount_type"`
	DiscountRate        decimal.Decimal       `json:"discount_rate"`
	DiscountFixed       decimal.Decimal       `json:"discount_fixed"`
	FiscalStamp         decimal.Decimal       `json:"fiscal_stamp"`
	ApplyWithholdingTax bool                  `json:"apply_withholding_tax"`
	ApplyVATWithholding bool                  `json:"apply_vat_withholding"`
	AmountUntaxed       decimal.Decimal       `json:"amount_untaxed"`
	AmountDiscount      decimal.Decimal       `json:"amount_discount"`
	AmountAfterDiscount decimal.Decimal       `json:"amount_after_discount"`
	AmountTax           decimal.Decimal       `json:"amount_tax"`
	Tax7Amount          decimal.Decimal       `json:"tax_7_amount"`
	Tax19Amount         decimal.Decimal       `json:"tax_19_amount"`
	TaxCustomAmount     decimal.Decimal       `json:"tax_custom_amount"`
	AmountTotal         decimal.Decimal       `json:"amount_total"`
	WithholdingTax      decimal.Decimal       `json:"withholding_tax"`
	VATWithholding      decimal.Decimal       `json:"vat_withholding"`
	NetToPay            decimal.Decimal       `json:"net_to_pay"`
	Lines               []InvoiceLineResponse `json:"lines"`
	Note                string                `json:"note,omitempty"`
}

// InvoiceLineResponse ligne dans la réponse.
type InvoiceLineResponse struct {
	ID            string          `json:"id"`
	MemberID      string          `json:"member_id,omitempty"`
	ServiceID     string          `json:"service_id,omitempty"`
	ReservationID string          `json:"reservation_id,omitempty"`
	DestinationID string          `json:"destination_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Description   string          `json:"description,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	UOM           string          `json:"uom,omitempty"`
	PriceTTC      decimal.Decimal `json:"price_ttc"`
	TaxRate       string          `json:"tax_rate"`
	TaxRateCustom decimal.Decimal `json:"tax_rate_custom,omitempty"`
	PriceUnit     decimal.Decimal `json:"price_unit"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
}

// PayInvoiceRequest body pour POST /api/invoices/:id/pay.
// Enregistre le net à payer comme encaissement dans la caisse donnée.
type PayInvoiceRequest struct {
	RegisterID    string `json:"register_id"`
	PaymentMethod string `json:"payment_method"` // cash | cheque | virement | carte
}

// CreatePurchaseRequest body pour POST /api/purchases.
type CreatePurchaseRequest struct {
	Kind            string          `json:"kind"` // supplier | hotel | platform
	SupplierID      string          `json:"supplier_id"`
	Date            time.Time       `json:"date"`
	Reference       string          `json:"reference,omitempty"`
	AmountTTC       decimal.Decimal `json:"amount_ttc"`
	TaxRate         string          `json:"tax_rate"` // "0" | "7" | "13" | "19"
	FiscalStamp     decimal.Decimal `json:"fiscal_stamp,omitempty"`
	WithholdingRate decimal.Decimal `json:"withholding_rate,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// PurchaseResponse achat fournisseur avec montants dérivés (soustraction).
type PurchaseResponse struct {
	ID                string          `json:"id"`
	Kind              string          `json:"kind"`
	SupplierID        string          `json:"supplier_id"`
	SupplierName      string          `json:"supplier_name,omitempty"`
	Date              time.Time       `json:"date"`
	Reference         string          `json:"reference,omitempty"`
	AmountTTC         decimal.Decimal `json:"amount_ttc"`
	TaxRate           string          `json:"tax_rate"`
	FiscalStamp       decimal.Decimal `json:"fiscal_stamp"`
	WithholdingRate   decimal.Decimal `json:"withholding_rate"`
	AmountUntaxed     decimal.Decimal `json:"amount_untaxed"`
	AmountTax         decimal.Decimal `json:"amount_tax"`
	AmountTotal       decimal.Decimal `json:"amount_total"`
	AmountWithholding decimal.Decimal `json:"amount_withholding"`
	AmountServed      decimal.Decimal `json:"amount_served"`
	DatePayment       *time.Time      `json:"date_payment,omitempty"`
	State             string          `json:"state"`
	Note              string          `json:"note,omitempty"`
}

// CreateWithholdingRequest body pour POST /api/withholdings.
type CreateWithholdingRequest struct {
	PartnerID       string          `json:"partner_id"`
	Date            time.Time       `json:"date"`
	AmountGross     decimal.Decimal `json:"amount_gross"`
	WithholdingRate decimal.Decimal `json:"withholding_rate"`
	Note            string          `json:"note,omitempty"`
}

// WithholdingResponse certificat de retenue.
type WithholdingResponse struct {
	ID                string          `json:"id"`
	Number            string          `json:"number"`
	PartnerID         string          `json:"partner_id"`
	Date              time.Time       `json:"date"`
	AmountGross       decimal.Decimal `json:"amount_gross"`
	WithholdingRate   decimal.Decimal `json:"withholding_rate"`
	AmountWithholding decimal.Decimal `json:"amount_withholding"`
	State             string          `json:"state"`
	Note              string          `json:"note,omitempty"`
}
