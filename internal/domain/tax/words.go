package tax

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	ntw "moul.io/number-to-words"
)

// AmountInWordsFR convertit un montant en toutes lettres françaises avec le
// suffixe « Dinars ». Le montant est arrondi à l'entier le plus proche;
// la conversion est idempotente pour un même entier.
func AmountInWordsFR(amount decimal.Decimal) string {
	if amount.IsZero() {
		return ""
	}
	n := int(math.Round(amount.InexactFloat64()))
	text := ntw.IntegerToFrFr(n)
	if text == "" {
		return ""
	}
	text = strings.ToUpper(text[:1]) + text[1:]
	return text + " Dinars"
}
