// Package member implémente la gestion des membres et des sociétés clientes.
package member

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rayen-omar/travel-pro-version1/internal/application/dto"
	"github.com/rayen-omar/travel-pro-version1/internal/domain"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/entity"
	"github.com/rayen-omar/travel-pro-version1/internal/domain/repository"
	"github.com/rayen-omar/travel-pro-version1/pkg/logger"
)

// Service expose les opérations membres et sociétés.
type Service struct {
	memberRepo  repository.MemberRepository
	companyRepo repository.CompanyRepository
	creditRepo  repository.CreditRepository
	log         *logger.Logger
}

// NewService construit le service.
func NewService(
	memberRepo repository.MemberRepository,
	companyRepo repository.CompanyRepository,
	creditRepo repository.CreditRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		memberRepo:  memberRepo,
		companyRepo: companyRepo,
		creditRepo:  creditRepo,
		log:         log.With("component", "members"),
	}
}

// CreateMember crée un membre. Le matricule est généré si absent et doit
// rester unique.
func (s *Service) CreateMember(ctx context.Context, in dto.CreateMemberRequest) (*dto.MemberResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidEmail(in.Email) || !entity.ValidPhone(in.Phone) {
		return nil, domain.ErrInvalidInput
	}
	if in.CompanyID != "" {
		company, err := s.companyRepo.GetByID(in.CompanyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
	}

	matricule := in.Matricule
	if matricule == "" {
		matricule = "MEM-" + uuid.New().String()[:8]
	}
	if existing, err := s.memberRepo.GetByMatricule(matricule); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	member := &entity.Member{
		ID:        uuid.New().String(),
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Matricule: matricule,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memberRepo.Create(member); err != nil {
		return nil, err
	}
	return s.toMemberResponse(member)
}

// GetMember retourne un membre avec son solde crédit.
func (s *Service) GetMember(ctx context.Context, id string) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	return s.toMemberResponse(member)
}

// ListMembers retourne les membres actifs, filtrés par société si donnée.
func (s *Service) ListMembers(ctx context.Context, companyID string, page dto.PageRequest) ([]*dto.MemberResponse, error) {
	page.DefaultPage()
	members, err := s.memberRepo.List(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MemberResponse, 0, len(members))
	for _, member := range members {
		resp, err := s.toMemberResponse(member)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// UpdateMember modifie les coordonnées d'un membre.
func (s *Service) UpdateMember(ctx context.Context, id string, in dto.UpdateMemberRequest) (*dto.MemberResponse, error) {
	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.ValidEmail(in.Email) || !entity.ValidPhone(in.Phone) {
		return nil, domain.ErrInvalidInput
	}
	if in.Name != "" {
		member.Name = in.Name
	}
	if in.Email != "" {
		member.Email = in.Email
	}
	if in.Phone != "" {
		member.Phone = in.Phone
	}
	member.UpdatedAt = time.Now()
	if err := s.memberRepo.Update(member); err != nil {
		return nil, err
	}
	return s.toMemberResponse(member)
}

// ArchiveMember archive un membre. L'historique crédit est conservé: la
// suppression physique d'un membre effacerait un historique financier.
func (s *Service) ArchiveMember(ctx context.Context, id string) error {
	member, err := s.memberRepo.GetByID(id)
	if err != nil {
		return err
	}
	if member == nil {
		return domain.ErrNotFound
	}
	if err := s.memberRepo.Archive(id); err != nil {
		return err
	}
	s.log.Info().Str("member", member.Matricule).Msg("membre archivé")
	return nil
}

// CreateCompany crée une société cliente. Un matricule fiscal au format non
// standard est accepté avec un avertissement.
func (s *Service) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.VAT != "" {
		if existing, err := s.companyRepo.GetByVAT(in.VAT); err != nil {
			return nil, err
		} else if existing != nil {
			return nil, domain.ErrDuplicate
		}
		if !entity.ValidVAT(in.VAT) {
			s.log.Warn().Str("vat", in.VAT).Msg("matricule fiscal au format non standard")
		}
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		VAT:       in.VAT,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, err
	}
	return s.toCompanyResponse(company)
}

// GetCompany retourne une société avec son nombre de membres.
func (s *Service) GetCompany(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return s.toCompanyResponse(company)
}

// ListCompanies retourne les sociétés clientes.
func (s *Service) ListCompanies(ctx context.Context, page dto.PageRequest) ([]*dto.CompanyResponse, error) {
	page.DefaultPage()
	companies, err := s.companyRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		resp, err := s.toCompanyResponse(company)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// UpdateCompany modifie une société cliente.
func (s *Service) UpdateCompany(ctx context.Context, id string, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != "" {
		company.Name = in.Name
	}
	if in.VAT != "" {
		company.VAT = in.VAT
	}
	if in.Email != "" {
		company.Email = in.Email
	}
	if in.Phone != "" {
		company.Phone = in.Phone
	}
	if in.Address != "" {
		company.Address = in.Address
	}
	company.UpdatedAt = time.Now()
	if err := s.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return s.toCompanyResponse(company)
}

func (s *Service) toMemberResponse(member *entity.Member) (*dto.MemberResponse, error) {
	balance, err := s.creditRepo.Balance(member.ID)
	if err != nil {
		return nil, err
	}
	return &dto.MemberResponse{
		ID:            member.ID,
		CompanyID:     member.CompanyID,
		Name:          member.Name,
		Matricule:     member.Matricule,
		Email:         member.Email,
		Phone:         member.Phone,
		Archived:      member.Archived,
		CreditBalance: balance,
	}, nil
}

func (s *Service) toCompanyResponse(company *entity.Company) (*dto.CompanyResponse, error) {
	count, err := s.companyRepo.CountMembers(company.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CompanyResponse{
		ID:          company.ID,
		Name:        company.Name,
		VAT:         company.VAT,
		Email:       company.Email,
		Phone:       company.Phone,
		Address:     company.Address,
		MemberCount: count,
	}, nil
}
