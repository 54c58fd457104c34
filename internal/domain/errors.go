package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound           = errors.New("ressource introuvable")
	ErrInvalidInput       = errors.New("entrée invalide")
	ErrDuplicate          = errors.New("ressource dupliquée")
	ErrConflict           = errors.New("conflit avec l'état actuel")
	ErrUnauthorized       = errors.New("non autorisé")
	ErrForbidden          = errors.New("accès refusé")
	ErrUserNotFound       = errors.New("utilisateur introuvable")
	ErrEmailAlreadyExists = errors.New("l'email est déjà enregistré")

	// Crédit membre.
	ErrInvalidAmount        = errors.New("montant de recharge invalide")
	ErrInsufficientCredit   = errors.New("crédit insuffisant")
	ErrDuplicateCreditUsage = errors.New("crédit déjà utilisé pour cette réservation")

	// Réservations.
	ErrPassengerMismatch = errors.New("le nombre de passagers ne correspond pas à la répartition annoncée")

	// Facturation.
	ErrInvalidTaxRate     = errors.New("taux de TVA personnalisé invalide")
	ErrMissingLineSubject = errors.New("la ligne doit avoir un membre ou un service")

	// Caisses.
	ErrRegisterClosed    = errors.New("la caisse est fermée")
	ErrRegisterOpened    = errors.New("la caisse est déjà ouverte")
	ErrMainRegisterExist = errors.New("une caisse principale existe déjà pour cette société")
	ErrSubRegisterLimit  = errors.New("une caisse principale ne peut avoir que deux sous-caisses")
)
