// Package tax implémente le moteur fiscal de l'agence: décomposition des
// prix TTC, TVA par taux, remises, timbre fiscal et retenues à la source
// selon la réglementation tunisienne.
//
// Deux conventions coexistent et ne doivent jamais être fusionnées:
//
//   - ClientConvention (factures clients): HT = TTC / (1 + taux), TVA = HT × taux.
//     Le prix saisi est le prix payé par le voyageur, HT et TVA sont dérivés
//     par division.
//   - SupplierConvention (factures fournisseurs): TVA = TTC × taux, HT = TTC − TVA.
//     Convention par soustraction, algébriquement différente de la première.
package tax

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// ResolveRate retourne le taux numérique (%) d'une ligne.
// Un taux "custom" non strictement positif est rejeté avec ErrInvalidTaxRate.
func ResolveRate(rate string, custom decimal.Decimal) (decimal.Decimal, error) {
	switch rate {
	case entity.TaxRateCustom:
		if !custom.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidTaxRate
		}
		return custom, nil
	case "":
		// Défaut historique du module: 7%.
		return decimal.NewFromInt(7), nil
	default:
		d, err := decimal.NewFromString(rate)
		if err != nil || d.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidTaxRate, rate)
		}
		return d, nil
	}
}

// RateLabel retourne le libellé d'affichage d'un taux, ex: "7%" ou "13%".
func RateLabel(rate string, custom decimal.Decimal) string {
	if rate == entity.TaxRateCustom {
		return custom.String() + "%"
	}
	if rate == "" {
		return "7%"
	}
	return rate + "%"
}
