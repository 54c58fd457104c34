package entity

import "time"

// Types de passager déterminés par l'âge au départ.
const (
	PassengerAdult  = "adult"  // 12 ans et plus
	PassengerChild  = "child"  // 2 à 11 ans
	PassengerInfant = "infant" // moins de 2 ans
)

// Passenger représente un voyageur rattaché à une réservation.
type Passenger struct {
	ID            string
	ReservationID string
	FirstName     string
	LastName      string
	BirthDate     time.Time
	Gender        string
	Nationality   string

	PassportNumber string
	PassportExpiry *time.Time

	Email string
	Phone string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Age retourne l'âge en années révolues à la date donnée.
func (p *Passenger) Age(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	if at.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years
}

// Type retourne la catégorie tarifaire du passager à la date donnée.
func (p *Passenger) Type(at time.Time) string {
	switch age := p.Age(at); {
	case age >= 12:
		return PassengerAdult
	case age >= 2:
		return PassengerChild
	default:
		return PassengerInfant
	}
}
