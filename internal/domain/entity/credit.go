package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Types d'écriture crédit. Le signe du montant est porté par l'écriture:
// positif = ajout de crédit, négatif = utilisation.
const (
	CreditRecharge = "recharge" // recharge manuelle
	CreditUsage    = "usage"    // utilisation réservation (montant négatif)
	CreditRefund   = "refund"   // remboursement annulation (montant positif)
)

// CreditEntry est une écriture de l'historique crédit d'un membre.
//
// L'historique est strictement append-only: une écriture n'est jamais
// modifiée ni supprimée, une correction est une nouvelle écriture de
// signe opposé. Le solde du membre est toujours la somme de l'historique
// complet, jamais un champ stocké séparément.
type CreditEntry struct {
	ID            string
	MemberID      string
	Date          time.Time
	Amount        decimal.Decimal
	Kind          string // recharge | usage | refund
	ReservationID string // réservation liée (usage et refund)
	Note          string
}
