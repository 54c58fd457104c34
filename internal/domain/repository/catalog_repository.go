package repository

import "github.com/rayen-omar/travel-pro-version1/internal/domain/entity"

// DestinationRepository définit le port de persistance des voyages.
type DestinationRepository interface {
	Create(destination *entity.Destination) error
	GetByID(id string) (*entity.Destination, error)
	List(limit, offset int) ([]*entity.Destination, error)
	Update(destination *entity.Destination) error
}

// ServiceRepository définit le port de persistance des services.
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(id string) (*entity.Service, error)
	List(serviceType, supplierID string, limit, offset int) ([]*entity.Service, error)
	Update(service *entity.Service) error
}

// SupplierRepository définit le port de persistance des fournisseurs.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	List(limit, offset int) ([]*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
}

// UserRepository définit le port de persistance des utilisateurs internes.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
