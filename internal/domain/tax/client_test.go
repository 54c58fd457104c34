package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/tax"
)

// Vecteur de référence: une ligne de 1070 TTC à 7% se décompose en
// 1000 HT + 70 TVA; avec timbre 1.000 le total est 1071.

func buildInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:           "fac-1",
		Number:       "FAC-00001",
		CompanyID:    "soc-1",
		DiscountType: entity.DiscountNone,
		FiscalStamp:  decimal.NewFromInt(1),
		State:        entity.InvoiceDraft,
	}
}

func buildLine(ttc int64, rate string) *entity.InvoiceLine {
	return &entity.InvoiceLine{
		ID:        "lig-1",
		InvoiceID: "fac-1",
		MemberID:  "mem-1",
		Quantity:  decimal.NewFromInt(1),
		PriceTTC:  decimal.NewFromInt(ttc),
		TaxRate:   rate,
	}
}

func assertEqualDecimal(t *testing.T, expected string, got decimal.Decimal, msg string) {
	t.Helper()
	want, err := decimal.NewFromString(expected)
	require.NoError(t, err)
	assert.True(t, got.Round(3).Equal(want), "%s: attendu %s, obtenu %s", msg, expected, got)
}

func TestComputeInvoice_DecompositionTTC7(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	lines := []*entity.InvoiceLine{buildLine(1070, entity.TaxRate7)}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	assertEqualDecimal(t, "1000", totals.AmountUntaxed, "total HT")
	assertEqualDecimal(t, "70", totals.AmountTax, "TVA")
	assertEqualDecimal(t, "70", totals.Tax7Amount, "tranche 7%")
	assertEqualDecimal(t, "1071", totals.AmountTotal, "total TTC avec timbre")
	assertEqualDecimal(t, "1000", lines[0].PriceUnit, "PU HT")
}

func TestComputeInvoice_RetenuesIndependantes(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	inv.ApplyWithholdingTax = true
	inv.ApplyVATWithholding = true
	lines := []*entity.InvoiceLine{buildLine(1070, entity.TaxRate7)}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	// retenue 1% sur (1071 − 1) et retenue 25% sur 70 de TVA
	assertEqualDecimal(t, "10.70", totals.WithholdingTax, "retenue IR")
	assertEqualDecimal(t, "17.50", totals.VATWithholding, "retenue TVA")
	assertEqualDecimal(t, "28.20", totals.TotalWithholding, "total retenues")
	assertEqualDecimal(t, "1042.80", totals.NetToPay, "net à payer")
}

func TestComputeInvoice_RetenueIRSeule(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	inv.ApplyWithholdingTax = true
	lines := []*entity.InvoiceLine{buildLine(1070, entity.TaxRate7)}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	assertEqualDecimal(t, "10.70", totals.WithholdingTax, "retenue IR")
	assertEqualDecimal(t, "0", totals.VATWithholding, "pas de retenue TVA")
	assertEqualDecimal(t, "1060.30", totals.NetToPay, "net à payer")
}

func TestComputeInvoice_RemisePourcentageProportionnelle(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	inv.DiscountType = entity.DiscountPercent
	inv.DiscountRate = decimal.NewFromInt(10)
	lines := []*entity.InvoiceLine{buildLine(1070, entity.TaxRate7)}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	assertEqualDecimal(t, "100", totals.DiscountAmount, "remise 10% du HT")
	assertEqualDecimal(t, "900", totals.AmountAfterDiscount, "HT après remise")
	// la TVA suit le même ratio que le HT
	assertEqualDecimal(t, "63", totals.AmountTax, "TVA réduite proportionnellement")
	assertEqualDecimal(t, "964", totals.AmountTotal, "total TTC")
}

func TestComputeInvoice_RemiseFixePlafonneeAuHT(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	inv.DiscountType = entity.DiscountFixed
	inv.DiscountFixed = decimal.NewFromInt(5000)
	lines := []*entity.InvoiceLine{buildLine(1070, entity.TaxRate7)}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	assertEqualDecimal(t, "1000", totals.DiscountAmount, "la remise fixe est plafonnée au HT")
	assertEqualDecimal(t, "0", totals.AmountAfterDiscount, "HT après remise")
	assertEqualDecimal(t, "0", totals.AmountTax, "TVA annulée par le ratio")
	assertEqualDecimal(t, "1", totals.AmountTotal, "il ne reste que le timbre")
}

func TestComputeInvoice_TranchesParTaux(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()
	custom := buildLine(550, entity.TaxRateCustom)
	custom.TaxRateCustom = decimal.NewFromInt(10)
	lines := []*entity.InvoiceLine{
		buildLine(1070, entity.TaxRate7),
		buildLine(1190, entity.TaxRate19),
		custom,
	}

	totals, err := conv.ComputeInvoice(inv, lines)
	require.NoError(t, err)

	assertEqualDecimal(t, "70", totals.Tax7Amount, "tranche 7%")
	assertEqualDecimal(t, "190", totals.Tax19Amount, "tranche 19%")
	assertEqualDecimal(t, "50", totals.TaxCustomAmount, "tranche personnalisée")
	assertEqualDecimal(t, "2500", totals.AmountUntaxed, "HT cumulé")
	assertEqualDecimal(t, "310", totals.AmountTax, "TVA cumulée")
}

func TestComputeInvoice_SansLignes(t *testing.T) {
	conv := tax.ClientConvention{}
	inv := buildInvoice()

	totals, err := conv.ComputeInvoice(inv, nil)
	require.NoError(t, err)

	assertEqualDecimal(t, "0", totals.AmountUntaxed, "HT vide")
	assertEqualDecimal(t, "1", totals.AmountTotal, "le timbre reste dû")
}

func TestValidateLine_SujetObligatoire(t *testing.T) {
	conv := tax.ClientConvention{}
	line := buildLine(100, entity.TaxRate7)
	line.MemberID = ""
	line.ServiceID = ""

	err := conv.ValidateLine(line)
	assert.ErrorIs(t, err, domain.ErrMissingLineSubject)
}

func TestValidateLine_TauxCustomNulRejete(t *testing.T) {
	conv := tax.ClientConvention{}
	line := buildLine(100, entity.TaxRateCustom)
	line.TaxRateCustom = decimal.Zero

	err := conv.ValidateLine(line)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)
}

func TestResolveRate_DefautSept(t *testing.T) {
	rate, err := tax.ResolveRate("", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(7)))
}

func TestResolveRate_TauxInconnuRejete(t *testing.T) {
	_, err := tax.ResolveRate("abc", decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxRate)
}
