package dto

import "github.com/shopspring/decimal"

// CreateMemberRequest body pour POST /api/members.
type CreateMemberRequest struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Matricule string `json:"matricule,omitempty"` // généré si vide
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UpdateMemberRequest body pour PUT /api/members/:id.
type UpdateMemberRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// MemberResponse adhérent avec son solde de crédit.
type MemberResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Name          string          `json:"name"`
	Matricule     string          `json:"matricule"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Archived      bool            `json:"archived"`
	CreditBalance decimal.Decimal `json:"credit_balance"`
}

// CreateCompanyRequest body pour POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	VAT     string `json:"vat,omitempty"` // matricule fiscal
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CompanyResponse société cliente dans les réponses.
type CompanyResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VAT         string `json:"vat,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	MemberCount int    `json:"member_count"`
}
