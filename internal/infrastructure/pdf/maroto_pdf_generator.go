// Package pdf implémente la représentation imprimable des factures clients
// de l'agence.
//
// Mise en page A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  EN-TÊTE: Agence + MF        │  N° Facture + Date           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEUR: Adresse / Tél / Email                             │
//	│  CLIENT: Société + MF + contact                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Réf | Désignation | Qté | PU HT | TVA | Total TTC   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAUX: HT / Remise / TVA / Timbre / Retenues / NET        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Montant en lettres + coordonnées bancaires                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// ── Palette de couleurs ───────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Générateur ────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implémente billing.InvoicePDFGenerator avec Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construit le générateur.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF génère le PDF et retourne ses octets.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	company *entity.Company,
	seller appbilling.SellerInfo,
	lines []appbilling.InvoiceLineForPDF,
	amountInWords string,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+invoice.Number, true).
		WithAuthor(seller.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, seller))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(seller))
	m.AddRows(clientRow(company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range totalsRows(invoice) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(seller, amountInWords) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: générer document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// headerRow: agence + matricule fiscal (gauche), numéro + date (droite).
func headerRow(invoice *entity.Invoice, seller appbilling.SellerInfo) core.Row {
	date := invoice.Date.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(seller.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("MF: "+seller.VAT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// sellerRow: coordonnées du vendeur (agence).
func sellerRow(seller appbilling.SellerInfo) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Adresse: %s   |   Tél: %s   |   Email: %s",
				nonEmpty(seller.Address, "—"),
				nonEmpty(seller.Phone, "—"),
				nonEmpty(seller.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// clientRow: société cliente facturée.
func clientRow(company *entity.Company) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("MF: %s   |   Email: %s   |   Tél: %s",
				nonEmpty(company.VAT, "—"),
				nonEmpty(company.Email, "—"),
				nonEmpty(company.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: en-tête de la table des lignes.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Réf.", 2, align.Left),
		h("Désignation", 4, align.Left),
		h("Qté", 1, align.Center),
		h("PU HT", 2, align.Right),
		h("TVA", 1, align.Center),
		h("Total TTC", 2, align.Right),
	)
}

// tableLineRows: une ligne de table par ligne de facture.
func tableLineRows(lines []appbilling.InvoiceLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		designation := l.SubjectName
		if l.Description != "" {
			designation = l.Description
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Reference,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				designation,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				l.Quantity.StringFixed(0),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.PriceUnit.StringFixed(3),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.RateLabel,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.PriceTotal.StringFixed(3),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: bloc des totaux. Les lignes nulles (remise, retenues non
// élues) sont omises.
func totalsRows(invoice *entity.Invoice) []core.Row {
	type totalLine struct {
		label string
		value decimal.Decimal
		grand bool
	}
	totals := []totalLine{
		{label: "Total HT:", value: invoice.AmountUntaxed},
	}
	if invoice.DiscountAmount.GreaterThan(decimal.Zero) {
		totals = append(totals,
			totalLine{label: "Remise:", value: invoice.DiscountAmount.Neg()},
			totalLine{label: "HT après remise:", value: invoice.AmountAfterDiscount},
		)
	}
	totals = append(totals,
		totalLine{label: "Total TVA:", value: invoice.AmountTax},
		totalLine{label: "Timbre fiscal:", value: invoice.FiscalStamp},
		totalLine{label: "Total TTC:", value: invoice.AmountTotal},
	)
	if invoice.ApplyWithholdingTax {
		totals = append(totals, totalLine{label: "Retenue à la source 1%:", value: invoice.WithholdingTax.Neg()})
	}
	if invoice.ApplyVATWithholding {
		totals = append(totals, totalLine{label: "Retenue TVA 25%:", value: invoice.VATWithholding.Neg()})
	}
	totals = append(totals, totalLine{label: "NET À PAYER:", value: invoice.NetToPay, grand: true})

	rows := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		labelProps := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2}
		valueProps := props.Text{Size: 9, Align: align.Right, Right: 1}
		if t.grand {
			labelProps = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2}
			valueProps = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1}
		}
		rows = append(rows, row.New(5).Add(
			col.New(6),
			col.New(3).Add(text.New(t.label, labelProps)),
			col.New(3).Add(text.New(t.value.StringFixed(3)+" TND", valueProps)),
		))
	}
	return rows
}

// footerRows: montant en lettres + coordonnées bancaires.
func footerRows(seller appbilling.SellerInfo, amountInWords string) []core.Row {
	rows := []core.Row{}
	if amountInWords != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Arrêtée la présente facture à la somme de: "+amountInWords, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 2,
			}),
		)))
	}
	if seller.BankName != "" || seller.BankIBAN != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Banque: %s   |   RIB: %s",
				nonEmpty(seller.BankName, "—"),
				nonEmpty(seller.BankIBAN, "—"),
			), props.Text{Size: 7.5, Color: colorGray, Top: 2}),
		)))
	}
	return rows
}

// ── aides ─────────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
