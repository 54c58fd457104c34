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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implémentation du port CompanyRepository sur PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construit l'adaptateur de persistance des sociétés clientes.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste une nouvelle société cliente.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, vat, phone, mobile, email, address, website, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.VAT, company.Phone, company.Mobile,
		company.Email, company.Address, company.Website, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtient une société par ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `
		SELECT id, name, vat, phone, mobile, email, address, website, created_at, updated_at
		FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.VAT, &c.Phone, &c.Mobile, &c.Email,
		&c.Address, &c.Website, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// GetByVAT obtient une société par matricule fiscal.
func (r *CompanyRepo) GetByVAT(vat string) (*entity.Company, error) {
	query := `
		SELECT id, name, vat, phone, mobile, email, address, website, created_at, updated_at
		FROM companies WHERE vat = $1`
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, vat).Scan(
		&c.ID, &c.Name, &c.VAT, &c.Phone, &c.Mobile, &c.Email,
		&c.Address, &c.Website, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by vat: %w", err)
	}
	return &c, nil
}

// List liste les sociétés avec pagination.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT id, name, vat, phone, mobile, email, address, website, created_at, updated_at
		FROM companies ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.VAT, &c.Phone, &c.Mobile, &c.Email,
			&c.Address, &c.Website, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update met à jour une société existante.
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `
		UPDATE companies SET name = $2, vat = $3, phone = $4, mobile = $5, email = $6, address = $7, website = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.VAT, company.Phone, company.Mobile,
		company.Email, company.Address, company.Website, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// CountMembers retourne le nombre de membres non archivés de la société.
func (r *CompanyRepo) CountMembers(companyID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM members WHERE company_id = $1 AND NOT archived`,
		companyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return count, nil
}
