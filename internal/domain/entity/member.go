package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Member représente un membre (client) de l'agence de voyage.
// Un membre peut appartenir à une société cliente et dispose d'un
// solde crédit dérivé de son historique (voir CreditEntry).
type Member struct {
	ID        string
	CompanyID string // société cliente (optionnel)
	Name      string
	Matricule string // identifiant unique, ex: MEM-00001
	Email     string
	Phone     string
	Archived  bool // un membre supprimé est archivé, son historique crédit est conservé
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MemberWithBalance membre enrichi de son solde crédit dérivé.
type MemberWithBalance struct {
	Member
	CreditBalance decimal.Decimal
}

// Pattern RFC 5322 simplifié.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail vérifie le format d'une adresse email (vide = accepté).
func ValidEmail(email string) bool {
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidPhone vérifie qu'un numéro contient au moins 8 chiffres une fois
// les séparateurs retirés (vide = accepté).
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", ".", "", "+", "").Replace(phone)
	return len(cleaned) >= 8
}
