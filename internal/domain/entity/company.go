package entity

import (
	"regexp"
	"strings"
	"time"
)

// Company représente une société cliente de l'agence.
// Une société regroupe plusieurs membres et porte le matricule fiscal
// utilisé sur les factures.
type Company struct {
	ID        string
	Name      string
	VAT       string // matricule fiscal tunisien, ex: 1234567/A/M/000
	Phone     string
	Mobile    string
	Email     string
	Address   string
	Website   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Format tunisien: 7 chiffres / lettre / lettre / 3 chiffres, ou forme courte.
var vatPattern = regexp.MustCompile(`^\d{7}/[A-Z]/[A-Z]/\d{3}$|^\d{7}[A-Z]$`)

// ValidVAT vérifie le format du matricule fiscal (vide = accepté).
// Un format non standard est toléré côté appelant (log warning), pas bloquant.
func ValidVAT(vat string) bool {
	if vat == "" {
		return true
	}
	return vatPattern.MatchString(strings.ReplaceAll(strings.ToUpper(vat), " ", ""))
}
