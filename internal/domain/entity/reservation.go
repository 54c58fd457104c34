package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// États du workflow réservation.
const (
	ReservationDraft     = "draft"
	ReservationConfirmed = "confirmed"
	ReservationDone      = "done"
	ReservationCancelled = "cancel"
)

// Catégories et types de chambre.
const (
	RoomStandard = "standard"
	RoomLS       = "ls"
	RoomSuperior = "superior"
	RoomDeluxe   = "deluxe"
	RoomSuite    = "suite"

	RoomSingle = "single"
	RoomDouble = "double"
	RoomTriple = "triple"
	RoomQuad   = "quad"
	RoomFamily = "family"
)

// Reservation représente une réservation de voyage d'un membre.
type Reservation struct {
	ID            string
	Reference     string // ex: RES-00042
	MemberID      string
	DestinationID string
	CheckIn       time.Time
	CheckOut      time.Time
	Adults        int
	Children      int
	Infants       int

	HotelServiceID string // service d'hébergement (optionnel)
	SupplierID     string // fournisseur hôtel (optionnel)
	LocalOrForeign string // local | foreign
	RoomCategory   string
	RoomType       string

	PurchaseAmount decimal.Decimal // prix achat par nuit
	SaleAmount     decimal.Decimal // prix vente par nuit
	ServiceIDs     []string        // services additionnels

	// Montants dérivés, recalculés à chaque écriture.
	ServiceTotal    decimal.Decimal
	FlightSubtotal  decimal.Decimal
	TotalPrice      decimal.Decimal
	DepositRequired decimal.Decimal // pourcentage d'acompte, défaut 30

	// Crédit membre.
	UseCredit  bool
	CreditUsed decimal.Decimal // min(solde, total) figé à la confirmation

	Status             string
	CancellationReason string
	ConfirmedBy        string
	ConfirmedAt        *time.Time
	CancelledBy        string
	CancelledAt        *time.Time

	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Nights retourne le nombre de nuitées (0 si les dates sont incohérentes).
func (r *Reservation) Nights() int {
	if r.CheckOut.Before(r.CheckIn) {
		return 0
	}
	return int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
}

// Participants retourne le total pax.
func (r *Reservation) Participants() int {
	return r.Adults + r.Children + r.Infants
}

// DepositAmount retourne le montant d'acompte requis.
func (r *Reservation) DepositAmount() decimal.Decimal {
	return r.TotalPrice.Mul(r.DepositRequired).Div(decimal.NewFromInt(100))
}

// RemainingToPay retourne le reste à payer après crédit.
func (r *Reservation) RemainingToPay() decimal.Decimal {
	return r.TotalPrice.Sub(r.CreditUsed)
}
