// Package catalog implémente la gestion des voyages, services et fournisseurs.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/tax"
)

// Service expose le catalogue de l'agence.
type Service struct {
	destinationRepo repository.DestinationRepository
	serviceRepo     repository.ServiceRepository
	supplierRepo    repository.SupplierRepository
}

// NewService construit le service.
func NewService(
	destinationRepo repository.DestinationRepository,
	serviceRepo repository.ServiceRepository,
	supplierRepo repository.SupplierRepository,
) *Service {
	return &Service{
		destinationRepo: destinationRepo,
		serviceRepo:     serviceRepo,
		supplierRepo:    supplierRepo,
	}
}

// CreateDestination crée un voyage.
func (s *Service) CreateDestination(ctx context.Context, in dto.CreateDestinationRequest) (*dto.DestinationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	destination := &entity.Destination{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.destinationRepo.Create(destination); err != nil {
		return nil, err
	}
	return toDestinationResponse(destination), nil
}

// ListDestinations retourne les voyages.
func (s *Service) ListDestinations(ctx context.Context, page dto.PageRequest) ([]*dto.DestinationResponse, error) {
	page.DefaultPage()
	destinations, err := s.destinationRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DestinationResponse, 0, len(destinations))
	for _, destination := range destinations {
		out = append(out, toDestinationResponse(destination))
	}
	return out, nil
}

// CreateService crée une prestation. Le taux de TVA est validé à la création
// pour que les factures construites depuis le catalogue soient calculables.
func (s *Service) CreateService(ctx context.Context, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if in.Name == "" || in.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TaxRate != "" {
		if _, err := tax.ResolveRate(in.TaxRate, in.TaxRateCustom); err != nil {
			return nil, err
		}
	}
	if in.SupplierID != "" {
		supplier, err := s.supplierRepo.GetByID(in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
	}
	if in.DestinationID != "" {
		destination, err := s.destinationRepo.GetByID(in.DestinationID)
		if err != nil {
			return nil, err
		}
		if destination == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	service := &entity.Service{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Type:          in.Type,
		Price:         in.Price,
		RoomPrice:     in.RoomPrice,
		SupplierID:    in.SupplierID,
		DestinationID: in.DestinationID,
		TaxRate:       in.TaxRate,
		TaxRateCustom: in.TaxRateCustom,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return toServiceResponse(service), nil
}

// ListServices retourne les prestations, filtrées par type et fournisseur.
func (s *Service) ListServices(ctx context.Context, serviceType, supplierID string, page dto.PageRequest) ([]*dto.ServiceResponse, error) {
	page.DefaultPage()
	services, err := s.serviceRepo.List(serviceType, supplierID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ServiceResponse, 0, len(services))
	for _, service := range services {
		out = append(out, toServiceResponse(service))
	}
	return out, nil
}

// CreateSupplier crée un fournisseur.
func (s *Service) CreateSupplier(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		VAT:       in.VAT,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// ListSuppliers retourne les fournisseurs.
func (s *Service) ListSuppliers(ctx context.Context, page dto.PageRequest) ([]*dto.SupplierResponse, error) {
	page.DefaultPage()
	suppliers, err := s.supplierRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(suppliers))
	for _, supplier := range suppliers {
		out = append(out, toSupplierResponse(supplier))
	}
	return out, nil
}

func toDestinationResponse(d *entity.Destination) *dto.DestinationResponse {
	return &dto.DestinationResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
	}
}

func toServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:            s.ID,
		Name:          s.Name,
		Type:          s.Type,
		Price:         s.Price,
		RoomPrice:     s.RoomPrice,
		SupplierID:    s.SupplierID,
		DestinationID: s.DestinationID,
		TaxRate:       s.TaxRate,
		TaxRateCustom: s.TaxRateCustom,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:    s.ID,
		Name:  s.Name,
		VAT:   s.VAT,
		Email: s.Email,
		Phone: s.Phone,
	}
}
