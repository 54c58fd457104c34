package tax

import (
	"github.com/shopspring/decimal"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// SupplierConvention calcule les montants des factures fournisseurs.
// Convention par soustraction, distincte de la convention client:
//
//	TVA = TTC × taux/100
//	HT  = TTC − TVA
//	Retenue = HT × taux retenue/100
//	Montant servi = HT − Retenue
//
// Ne pas unifier avec ClientConvention: les deux formules ne sont pas
// algébriquement équivalentes.
type SupplierConvention struct{}

// SupplierTotals regroupe les montants dérivés d'une facture fournisseur.
type SupplierTotals struct {
	AmountTax         decimal.Decimal
	AmountUntaxed     decimal.Decimal
	AmountTotal       decimal.Decimal // HT + TVA + timbre
	AmountWithholding decimal.Decimal
	AmountServed      decimal.Decimal
}

// Compute calcule les montants depuis le TTC saisi.
func (SupplierConvention) Compute(p *entity.Purchase) (*SupplierTotals, error) {
	rate, err := ResolveRate(p.TaxRate, decimal.Zero)
	if err != nil {
		return nil, err
	}

	t := &SupplierTotals{}
	t.AmountTax = p.AmountTTC.Mul(rate).Div(hundred)
	t.AmountUntaxed = p.AmountTTC.Sub(t.AmountTax)
	t.AmountWithholding = t.AmountUntaxed.Mul(p.WithholdingRate).Div(hundred)
	t.AmountServed = t.AmountUntaxed.Sub(t.AmountWithholding)
	t.AmountTotal = t.AmountUntaxed.Add(t.AmountTax).Add(p.FiscalStamp)
	return t, nil
}

// Apply recopie les totaux calculés dans la facture fournisseur.
func (t *SupplierTotals) Apply(p *entity.Purchase) {
	p.AmountTax = t.AmountTax
	p.AmountUntaxed = t.AmountUntaxed
	p.AmountTotal = t.AmountTotal
	p.AmountWithholding = t.AmountWithholding
	p.AmountServed = t.AmountServed
}
