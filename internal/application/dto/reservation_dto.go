package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateReservationRequest body pour POST /api/reservations.
type CreateReservationRequest struct {
	MemberID       string          `json:"member_id"`
	DestinationID  string          `json:"destination_id,omitempty"`
	RoomType       string          `json:"room_type,omitempty"`
	CheckIn        time.Time       `json:"check_in"`
	CheckOut       time.Time       `json:"check_out"`
	Adults         int             `json:"adults"`
	Children       int             `json:"children"`
	Infants        int             `json:"infants"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount"` // par nuit
	SaleAmount     decimal.Decimal `json:"sale_amount"`     // par nuit
	ServiceIDs     []string        `json:"service_ids,omitempty"`
	UseCredit      bool            `json:"use_credit"`
	Note           string          `json:"note,omitempty"`
}

// UpdateReservationRequest body pour PUT /api/reservations/:id (brouillon uniquement).
type UpdateReservationRequest struct {
	DestinationID  string          `json:"destination_id,omitempty"`
	RoomType       string          `json:"room_type,omitempty"`
	CheckIn        *time.Time      `json:"check_in,omitempty"`
	CheckOut       *time.Time      `json:"check_out,omitempty"`
	Adults         *int            `json:"adults,omitempty"`
	Children       *int            `json:"children,omitempty"`
	Infants        *int            `json:"infants,omitempty"`
	PurchaseAmount decimal.Decimal `json:"purchase_amount,omitempty"`
	SaleAmount     decimal.Decimal `json:"sale_amount,omitempty"`
	ServiceIDs     []string        `json:"service_ids,omitempty"`
	UseCredit      *bool           `json:"use_credit,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// CancelReservationRequest body pour POST /api/reservations/:id/cancel.
type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

// CreateFlightRequest body pour POST /api/reservations/:id/flights.
type CreateFlightRequest struct {
	FlightType          string          `json:"flight_type"`
	DepartureCity       string          `json:"departure_city"`
	ArrivalCity         string          `json:"arrival_city"`
	DepartureDate       time.Time       `json:"departure_date"`
	ArrivalDate         time.Time       `json:"arrival_date"`
	FlightNumber        string          `json:"flight_number,omitempty"`
	Airline             string          `json:"airline,omitempty"`
	ReturnDepartureDate *time.Time      `json:"return_departure_date,omitempty"`
	ReturnArrivalDate   *time.Time      `json:"return_arrival_date,omitempty"`
	ReturnFlightNumber  string          `json:"return_flight_number,omitempty"`
	ClassType           string          `json:"class_type,omitempty"`
	BookingReference    string          `json:"booking_reference,omitempty"`
	TicketNumber        string          `json:"ticket_number,omitempty"`
	PurchasePrice       decimal.Decimal `json:"purchase_price"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	SupplierID          string          `json:"supplier_id,omitempty"`
	Note                string          `json:"note,omitempty"`
}

// FlightResponse vol rattaché à une réservation.
type FlightResponse struct {
	ID                  string          `json:"id"`
	ReservationID       string          `json:"reservation_id"`
	FlightType          string          `json:"flight_type"`
	Label               string          `json:"label"`
	DepartureCity       string          `json:"departure_city"`
	ArrivalCity         string          `json:"arrival_city"`
	DepartureDate       time.Time       `json:"departure_date"`
	ArrivalDate         time.Time       `json:"arrival_date"`
	FlightNumber        string          `json:"flight_number,omitempty"`
	Airline             string          `json:"airline,omitempty"`
	ReturnDepartureDate *time.Time      `json:"return_departure_date,omitempty"`
	ReturnArrivalDate   *time.Time      `json:"return_arrival_date,omitempty"`
	ReturnFlightNumber  string          `json:"return_flight_number,omitempty"`
	ClassType           string          `json:"class_type"`
	BookingReference    string          `json:"booking_reference,omitempty"`
	TicketNumber        string          `json:"ticket_number,omitempty"`
	PurchasePrice       decimal.Decimal `json:"purchase_price"`
	SalePrice           decimal.Decimal `json:"sale_price"`
	Margin              decimal.Decimal `json:"margin"`
	Status              string          `json:"status"`
	SupplierID          string          `json:"supplier_id,omitempty"`
	Note                string          `json:"note,omitempty"`
}

// CreatePassengerRequest body pour POST /api/reservations/:id/passengers.
type CreatePassengerRequest struct {
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      time.Time  `json:"birth_date"`
	Gender         string     `json:"gender,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
}

// PassengerResponse passager d'une réservation, avec sa catégorie tarifaire
// calculée à la date de départ.
type PassengerResponse struct {
	ID             string     `json:"id"`
	ReservationID  string     `json:"reservation_id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      time.Time  `json:"birth_date"`
	Type           string     `json:"type"`
	Gender         string     `json:"gender,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	PassportExpiry *time.Time `json:"passport_expiry,omitempty"`
	Email          string     `json:"email,omitempty"`
	Phone          string     `json:"phone,omitempty"`
}

// ReservationResponse réservation avec montants dérivés.
type ReservationResponse struct {
	ID              string          `json:"id"`
	Reference       string          `json:"reference"`
	MemberID        string          `json:"member_id"`
	MemberName      string          `json:"member_name,omitempty"`
	DestinationID   string          `json:"destination_id,omitempty"`
	RoomType        string          `json:"room_type,omitempty"`
	CheckIn         time.Time       `json:"check_in"`
	CheckOut        time.Time       `json:"check_out"`
	Nights          int             `json:"nights"`
	Adults          int             `json:"adults"`
	Children        int             `json:"children"`
	Infants         int             `json:"infants"`
	Participants    int             `json:"participants"`
	PurchaseAmount  decimal.Decimal `json:"purchase_amount"`
	SaleAmount      decimal.Decimal `json:"sale_amount"`
	ServiceTotal    decimal.Decimal `json:"service_total"`
	FlightSubtotal  decimal.Decimal `json:"flight_subtotal"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	DepositPercent  decimal.Decimal `json:"deposit_percent"`
	DepositAmount   decimal.Decimal `json:"deposit_amount"`
	UseCredit       bool            `json:"use_credit"`
	CreditUsed      decimal.Decimal `json:"credit_used"`
	RemainingToPay  decimal.Decimal `json:"remaining_to_pay"`
	Status          string          `json:"status"`
	Note            string          `json:"note,omitempty"`
}
