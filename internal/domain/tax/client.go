package tax

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// ClientConvention calcule les montants des factures clients.
// Les prix des lignes sont saisis TTC; HT et TVA sont dérivés par division:
//
//	HT  = (quantité × prix TTC) / (1 + taux/100)
//	TVA = HT × taux/100
//
// La remise s'applique sur le total HT puis proportionnellement à chaque
// tranche de TVA (jamais recalculée ligne à ligne), ce qui préserve
// l'attribution par taux pour la déclaration.
type ClientConvention struct{}

// TaxBucket est le montant de TVA agrégé pour un taux donné.
type TaxBucket struct {
	Label  string // ex: "7%"
	Rate   decimal.Decimal
	Amount decimal.Decimal // après remise proportionnelle
}

// ClientTotals regroupe les montants dérivés d'une facture client.
type ClientTotals struct {
	AmountUntaxed       decimal.Decimal
	DiscountAmount      decimal.Decimal
	AmountAfterDiscount decimal.Decimal
	AmountTax           decimal.Decimal
	Tax7Amount          decimal.Decimal
	Tax19Amount         decimal.Decimal
	TaxCustomAmount     decimal.Decimal
	Buckets             []TaxBucket
	AmountTotal         decimal.Decimal
	WithholdingTax      decimal.Decimal
	VATWithholding      decimal.Decimal
	TotalWithholding    decimal.Decimal
	NetToPay            decimal.Decimal
}

// ValidateLine vérifie une ligne avant calcul: sujet obligatoire (membre ou
// service) et taux personnalisé strictement positif.
func (ClientConvention) ValidateLine(line *entity.InvoiceLine) error {
	if line.MemberID == "" && line.ServiceID == "" {
		return domain.ErrMissingLineSubject
	}
	if _, err := ResolveRate(line.TaxRate, line.TaxRateCustom); err != nil {
		return err
	}
	return nil
}

// ComputeLine remplit les montants dérivés d'une ligne (PU HT, total HT,
// TVA, total TTC) à partir du prix TTC saisi.
func (c ClientConvention) ComputeLine(line *entity.InvoiceLine) error {
	rate, err := ResolveRate(line.TaxRate, line.TaxRateCustom)
	if err != nil {
		return err
	}
	divisor := decimal.NewFromInt(1).Add(rate.Div(hundred))

	// PU HT = TTC / (1 + taux)
	line.PriceUnit = line.PriceTTC.Div(divisor)

	totalTTC := line.Quantity.Mul(line.PriceTTC)
	subtotal := totalTTC.Div(divisor)
	taxAmount := subtotal.Mul(rate).Div(hundred)

	line.PriceSubtotal = subtotal
	line.PriceTax = taxAmount
	line.PriceTotal = subtotal.Add(taxAmount)
	return nil
}

// withholdingIncomeRate: retenue 1% sur le TTC hors timbre.
// withholdingVATRate: retenue 25% sur la TVA.
var (
	withholdingIncomeRate = decimal.NewFromFloat(0.01)
	withholdingVATRate    = decimal.NewFromFloat(0.25)
)

// ComputeInvoice calcule tous les totaux d'une facture à partir de ses lignes.
// Les lignes sont recalculées d'abord (ComputeLine), puis:
//
//  1. Total HT = Σ HT lignes, TVA groupée par taux.
//  2. Remise sur le HT: percent = HT × taux/100, fixed = min(fixe, HT).
//  3. Chaque tranche de TVA est réduite du même ratio que le HT.
//  4. Total TTC = HT après remise + TVA après remise + timbre fiscal.
//  5. Retenues indépendantes: 1% sur (TTC − timbre) et 25% sur la TVA.
//  6. Net à payer = TTC − total retenues.
func (c ClientConvention) ComputeInvoice(inv *entity.Invoice, lines []*entity.InvoiceLine) (*ClientTotals, error) {
	totals := &ClientTotals{}

	type bucket struct {
		rate   decimal.Decimal
		amount decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for _, line := range lines {
		if err := c.ValidateLine(line); err != nil {
			return nil, err
		}
		if err := c.ComputeLine(line); err != nil {
			return nil, err
		}
		totals.AmountUntaxed = totals.AmountUntaxed.Add(line.PriceSubtotal)

		if line.PriceTax.GreaterThan(decimal.Zero) {
			key := RateLabel(line.TaxRate, line.TaxRateCustom)
			b, ok := buckets[key]
			if !ok {
				rate, _ := ResolveRate(line.TaxRate, line.TaxRateCustom)
				b = &bucket{rate: rate}
				buckets[key] = b
			}
			b.amount = b.amount.Add(line.PriceTax)
		}
	}

	// Remise sur le total HT.
	switch inv.DiscountType {
	case entity.DiscountPercent:
		if inv.DiscountRate.GreaterThan(decimal.Zero) {
			totals.DiscountAmount = totals.AmountUntaxed.Mul(inv.DiscountRate).Div(hundred)
		}
	case entity.DiscountFixed:
		if inv.DiscountFixed.GreaterThan(decimal.Zero) {
			// La remise fixe ne peut pas dépasser le total HT.
			totals.DiscountAmount = decimal.Min(inv.DiscountFixed, totals.AmountUntaxed)
		}
	}
	totals.AmountAfterDiscount = totals.AmountUntaxed.Sub(totals.DiscountAmount)

	discountRatio := decimal.NewFromInt(1)
	if totals.AmountUntaxed.GreaterThan(decimal.Zero) {
		discountRatio = totals.AmountAfterDiscount.Div(totals.AmountUntaxed)
	}

	// TVA par taux, réduite proportionnellement à la remise.
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b := buckets[key]
		adjusted := b.amount.Mul(discountRatio)
		totals.AmountTax = totals.AmountTax.Add(adjusted)
		totals.Buckets = append(totals.Buckets, TaxBucket{Label: key, Rate: b.rate, Amount: adjusted})

		switch key {
		case "7%":
			totals.Tax7Amount = adjusted
		case "19%":
			totals.Tax19Amount = adjusted
		default:
			totals.TaxCustomAmount = totals.TaxCustomAmount.Add(adjusted)
		}
	}

	totals.AmountTotal = totals.AmountAfterDiscount.Add(totals.AmountTax).Add(inv.FiscalStamp)

	if inv.ApplyWithholdingTax {
		base := totals.AmountTotal.Sub(inv.FiscalStamp)
		totals.WithholdingTax = base.Mul(withholdingIncomeRate)
	}
	if inv.ApplyVATWithholding {
		totals.VATWithholding = totals.AmountTax.Mul(withholdingVATRate)
	}
	totals.TotalWithholding = totals.WithholdingTax.Add(totals.VATWithholding)
	totals.NetToPay = totals.AmountTotal.Sub(totals.TotalWithholding)

	return totals, nil
}

// Apply recopie les totaux calculés dans la facture.
func (t *ClientTotals) Apply(inv *entity.Invoice) {
	inv.AmountUntaxed = t.AmountUntaxed
	inv.DiscountAmount = t.DiscountAmount
	inv.AmountAfterDiscount = t.AmountAfterDiscount
	inv.AmountTax = t.AmountTax
	inv.Tax7Amount = t.Tax7Amount
	inv.Tax19Amount = t.Tax19Amount
	inv.TaxCustomAmount = t.TaxCustomAmount
	inv.AmountTotal = t.AmountTotal
	inv.WithholdingTax = t.WithholdingTax
	inv.VATWithholding = t.VATWithholding
	inv.TotalWithholding = t.TotalWithholding
	inv.NetToPay = t.NetToPay
}
