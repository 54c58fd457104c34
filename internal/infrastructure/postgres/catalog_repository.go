package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.DestinationRepository = (*DestinationRepo)(nil)

// DestinationRepo implémentation du port DestinationRepository sur PostgreSQL.
type DestinationRepo struct {
	q Querier
}

// NewDestinationRepository construit l'adaptateur de persistance des voyages.
func NewDestinationRepository(q Querier) *DestinationRepo {
	return &DestinationRepo{q: q}
}

// Create persiste un nouveau voyage.
func (r *DestinationRepo) Create(d *entity.Destination) error {
	query := `
		INSERT INTO destinations (id, name, description, price, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Name, d.Description, d.Price, d.StartDate, d.EndDate, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert destination: %w", err)
	}
	return nil
}

// GetByID obtient un voyage par ID.
func (r *DestinationRepo) GetByID(id string) (*entity.Destination, error) {
	query := `
		SELECT id, name, description, price, start_date, end_date, created_at, updated_at
		FROM destinations WHERE id = $1`
	var d entity.Destination
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.Price, &d.StartDate, &d.EndDate, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get destination: %w", err)
	}
	return &d, nil
}

// List liste les voyages avec pagination.
func (r *DestinationRepo) List(limit, offset int) ([]*entity.Destination, error) {
	query := `
		SELECT id, name, description, price, start_date, end_date, created_at, updated_at
		FROM destinations ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Destination
	for rows.Next() {
		var d entity.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.Price, &d.StartDate, &d.EndDate,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan destination: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update met à jour un voyage existant.
func (r *DestinationRepo) Update(d *entity.Destination) error {
	query := `
		UPDATE destinations SET name = $2, description = $3, price = $4, start_date = $5, end_date = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.Name, d.Description, d.Price, d.StartDate, d.EndDate, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update destination: %w", err)
	}
	return nil
}

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

// ServiceRepo implémentation du port ServiceRepository sur PostgreSQL.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construit l'adaptateur de persistance des services.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `
	id, name, type, price, room_price, COALESCE(supplier_id, ''), COALESCE(destination_id, ''),
	tax_rate, tax_rate_custom, note, created_at, updated_at`

// Create persiste un nouveau service.
func (r *ServiceRepo) Create(s *entity.Service) error {
	query := `
		INSERT INTO services (id, name, type, price, room_price, supplier_id, destination_id, tax_rate, tax_rate_custom, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.Type, s.Price, s.RoomPrice, s.SupplierID, s.DestinationID,
		s.TaxRate, s.TaxRateCustom, s.Note, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// GetByID obtient un service par ID.
func (r *ServiceRepo) GetByID(id string) (*entity.Service, error) {
	var s entity.Service
	err := r.q.QueryRow(context.Background(),
		`SELECT `+serviceColumns+` FROM services WHERE id = $1`, id).Scan(
		&s.ID, &s.Name, &s.Type, &s.Price, &s.RoomPrice, &s.SupplierID, &s.DestinationID,
		&s.TaxRate, &s.TaxRateCustom, &s.Note, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	return &s, nil
}

// List liste les services, filtrés par type et fournisseur si non vides.
func (r *ServiceRepo) List(serviceType, supplierID string, limit, offset int) ([]*entity.Service, error) {
	query := `SELECT ` + serviceColumns + `
		FROM services
		WHERE ($1 = '' OR type = $1) AND ($2 = '' OR supplier_id = $2)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, serviceType, supplierID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &s.Price, &s.RoomPrice, &s.SupplierID, &s.DestinationID,
			&s.TaxRate, &s.TaxRateCustom, &s.Note, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update met à jour un service existant.
func (r *ServiceRepo) Update(s *entity.Service) error {
	query := `
		UPDATE services SET name = $2, type = $3, price = $4, room_price = $5,
			supplier_id = NULLIF($6, ''), destination_id = NULLIF($7, ''),
			tax_rate = $8, tax_rate_custom = $9, note = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.Type, s.Price, s.RoomPrice, s.SupplierID, s.DestinationID,
		s.TaxRate, s.TaxRateCustom, s.Note, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	return nil
}

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implémentation du port SupplierRepository sur PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construit l'adaptateur de persistance des fournisseurs.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

// Create persiste un nouveau fournisseur.
func (r *SupplierRepo) Create(s *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, vat, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.VAT, s.Email, s.Phone, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtient un fournisseur par ID.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `SELECT id, name, vat, email, phone, created_at, updated_at FROM suppliers WHERE id = $1`
	var s entity.Supplier
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Name, &s.VAT, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

// List liste les fournisseurs avec pagination.
func (r *SupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	query := `SELECT id, name, vat, email, phone, created_at, updated_at FROM suppliers ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		var s entity.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.VAT, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Update met à jour un fournisseur existant.
func (r *SupplierRepo) Update(s *entity.Supplier) error {
	query := `UPDATE suppliers SET name = $2, vat = $3, email = $4, phone = $5, updated_at = $6 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Name, s.VAT, s.Email, s.Phone, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	return nil
}
