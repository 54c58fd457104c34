package repository

import (
	"time"

	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
)

// CashRegisterRepository définit le port de persistance des caisses.
type CashRegisterRepository interface {
	Create(register *entity.CashRegister) error
	GetByID(id string) (*entity.CashRegister, error)
	GetByCode(code string) (*entity.CashRegister, error)
	// GetMainByCompany retourne la caisse principale active de la société.
	GetMainByCompany(companyID string) (*entity.CashRegister, error)
	ListSubRegisters(mainID string) ([]*entity.CashRegister, error)
	// ListOpenMains retourne les caisses principales ouvertes (balayage minuit).
	ListOpenMains() ([]*entity.CashRegister, error)
	List(limit, offset int) ([]*entity.CashRegister, error)
	Update(register *entity.CashRegister) error
}

// CashOperationRepository définit le port de persistance des opérations de caisse.
type CashOperationRepository interface {
	Create(op *entity.CashOperation) error
	GetByID(id string) (*entity.CashOperation, error)
	// ListByRegister retourne les opérations d'une caisse depuis son ouverture
	// courante, par date décroissante puis id décroissant.
	ListByRegister(registerID string, limit, offset int) ([]*entity.CashOperation, error)
	// ListConfirmedSince retourne les opérations confirmées depuis la date
	// d'ouverture (calcul du solde de session).
	ListConfirmedSince(registerID string, since time.Time) ([]*entity.CashOperation, error)
	Update(op *entity.CashOperation) error
	NextReference() (string, error)
}
