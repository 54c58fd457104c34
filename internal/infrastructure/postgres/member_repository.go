package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
)

var _ repository.MemberRepository = (*MemberRepo)(nil)

// MemberRepo implémentation du port MemberRepository sur PostgreSQL (utilisable avec pool ou tx).
type MemberRepo struct {
	q Querier
}

// NewMemberRepository construit l'adaptateur de persistance des membres. Passer pool ou tx (Querier).
func NewMemberRepository(q Querier) *MemberRepo {
	return &MemberRepo{q: q}
}

// Create persiste un nouveau membre.
func (r *MemberRepo) Create(member *entity.Member) error {
	query := `
		INSERT INTO members (id, company_id, name, matricule, email, phone, archived, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		member.ID, member.CompanyID, member.Name, member.Matricule,
		member.Email, member.Phone, member.Archived, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// GetByID obtient un membre par ID.
func (r *MemberRepo) GetByID(id string) (*entity.Member, error) {
	query := `
		SELECT id, COALESCE(company_id, ''), name, matricule, email, phone, archived, created_at, updated_at
		FROM members WHERE id = $1`
	var m entity.Member
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.CompanyID, &m.Name, &m.Matricule, &m.Email, &m.Phone,
		&m.Archived, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return &m, nil
}

// GetByMatricule obtient un membre par matricule.
func (r *MemberRepo) GetByMatricule(matricule string) (*entity.Member, error) {
	query := `
		SELECT id, COALESCE(company_id, ''), name, matricule, email, phone, archived, created_at, updated_at
		FROM members WHERE matricule = $1`
	var m entity.Member
	err := r.q.QueryRow(context.Background(), query, matricule).Scan(
		&m.ID, &m.CompanyID, &m.Name, &m.Matricule, &m.Email, &m.Phone,
		&m.Archived, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get member by matricule: %w", err)
	}
	return &m, nil
}

// List liste les membres non archivés, filtrés par société si companyID non vide.
func (r *MemberRepo) List(companyID string, limit, offset int) ([]*entity.Member, error) {
	query := `
		SELECT id, COALESCE(company_id, ''), name, matricule, email, phone, archived, created_at, updated_at
		FROM members
		WHERE NOT archived AND ($1 = '' OR company_id = $1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var list []*entity.Member
	for rows.Next() {
		var m entity.Member
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.Name, &m.Matricule, &m.Email, &m.Phone,
			&m.Archived, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update met à jour un membre existant. Le matricule n'est pas modifiable.
func (r *MemberRepo) Update(member *entity.Member) error {
	query := `
		UPDATE members SET company_id = NULLIF($2, ''), name = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		member.ID, member.CompanyID, member.Name, member.Email, member.Phone, member.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

// Archive marque le membre comme archivé. Pas de suppression physique:
// l'historique crédit reste rattaché.
func (r *MemberRepo) Archive(id string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE members SET archived = true, updated_at = $2 WHERE id = $1`,
		id, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("archive member: %w", err)
	}
	return nil
}
