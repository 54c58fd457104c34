package repository

import "github.com/rayen-omar/travel-pro-version1/internal/domain/entity"

// MemberRepository définit le port de persistance des membres.
type MemberRepository interface {
	Create(member *entity.Member) error
	GetByID(id string) (*entity.Member, error)
	GetByMatricule(matricule string) (*entity.Member, error)
	// List retourne les membres actifs, filtrés par société si companyID non vide.
	List(companyID string, limit, offset int) ([]*entity.Member, error)
	Update(member *entity.Member) error
	// Archive marque le membre comme archivé; l'historique crédit est conservé
	// (pas de suppression physique, l'historique financier est immuable).
	Archive(id string) error
}

// CompanyRepository définit le port de persistance des sociétés clientes.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	GetByVAT(vat string) (*entity.Company, error)
	List(limit, offset int) ([]*entity.Company, error)
	Update(company *entity.Company) error
	// CountMembers retourne le nombre de membres actifs de la société.
	CountMembers(companyID string) (int, error)
}
