package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Types de vol.
const (
	FlightOneWay    = "oneway"
	FlightRoundTrip = "roundtrip"
	FlightMulti     = "multi"
)

// Classes de cabine.
const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium_economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"
)

// États d'un vol.
const (
	FlightQuote     = "quote"
	FlightBooked    = "booked"
	FlightTicketed  = "ticketed"
	FlightCancelled = "cancelled"
)

// Flight représente un vol rattaché à une réservation. Le prix de vente
// alimente le sous-total vols de la réservation.
type Flight struct {
	ID            string
	ReservationID string
	FlightType    string // oneway | roundtrip | multi

	DepartureCity string
	ArrivalCity   string
	DepartureDate time.Time
	ArrivalDate   time.Time
	FlightNumber  string
	Airline       string

	// Vol retour (aller-retour uniquement).
	ReturnDepartureDate *time.Time
	ReturnArrivalDate   *time.Time
	ReturnFlightNumber  string

	ClassType        string // economy | premium_economy | business | first
	BookingReference string // PNR
	TicketNumber     string

	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal

	Status     string // quote | booked | ticketed | cancelled
	SupplierID string
	Note       string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label retourne la désignation du vol pour l'affichage et la facturation.
func (f *Flight) Label() string {
	return fmt.Sprintf("%s - %s → %s", f.FlightNumber, f.DepartureCity, f.ArrivalCity)
}

// Margin retourne la marge vente moins achat.
func (f *Flight) Margin() decimal.Decimal {
	return f.SalePrice.Sub(f.PurchasePrice)
}
