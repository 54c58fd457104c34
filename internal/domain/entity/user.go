package entity

import "time"

// Rôles des utilisateurs de l'agence.
const (
	RoleAgent    = "agent"
	RoleManager  = "manager"
	RoleDirector = "director"
)

// User représente un utilisateur interne (agent de l'agence).
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // agent | manager | director
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
