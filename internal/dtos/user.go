// File: internal/dtos/user.go
package dtos

import (
	"time"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// UserResponseDTO is what a signed-in user sees about their own account.
// The password hash never leaves the domain layer.
type UserResponseDTO struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	PhoneNo        string `json:"phone_no"`
	UserType       string `json:"user_type"`
	Degree         string `json:"degree,omitempty"`
	College        string `json:"college,omitempty"`
	Qualifications string `json:"qualifications,omitempty"`
	SocialMedia    string `json:"social_media,omitempty"`
	ProfilePicURL  string `json:"profile_pic_url,omitempty"`
	IsActive       bool   `json:"is_active"`
	CreatedAt      string `json:"created_at"`
}

// LawyerDTO is the public directory view of a lawyer. Email is excluded.
type LawyerDTO struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	PhoneNo          string `json:"phone_no"`
	UserType         string `json:"user_type"`
	Degree           string `json:"degree"`
	College          string `json:"college"`
	Qualifications   string `json:"qualifications"`
	SocialMedia      string `json:"social_media"`
	ProfilePicURL    string `json:"profile_pic_url"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
	ConnectionCount  *int64 `json:"connection_count,omitempty"`
	TotalConnections *int64 `json:"total_connections,omitempty"`
}

// ConnectionDTO mirrors a LawyerConnection for API responses.
type ConnectionDTO struct {
	ID               uint   `json:"id"`
	ClientID         uint   `json:"client_id"`
	LawyerID         uint   `json:"lawyer_id"`
	ConnectionStatus string `json:"connection_status"`
	CaseDescription  string `json:"case_description"`
	ClientName       string `json:"client_name"`
	LawyerName       string `json:"lawyer_name"`
	CreatedAt        string `json:"created_at"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int64 `json:"pages"`
}

func NewPagination(page, perPage int, total int64) Pagination {
	pages := int64(0)
	if perPage > 0 {
		pages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}
}

// FromDomain maps a domain.User to UserResponseDTO.
func FromDomain(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		PhoneNo:        user.PhoneNo,
		UserType:       string(user.UserType),
		Degree:         user.Degree,
		College:        user.College,
		Qualifications: user.Qualifications,
		SocialMedia:    user.SocialMedia,
		ProfilePicURL:  user.ProfilePicURL,
		IsActive:       user.IsActive,
		CreatedAt:      formatTime(user.CreatedAt),
	}
}

func ToLawyer(user domain.User) LawyerDTO {
	return LawyerDTO{
		ID:             user.ID,
		Name:           user.Name,
		PhoneNo:        user.PhoneNo,
		UserType:       string(user.UserType),
		Degree:         user.Degree,
		College:        user.College,
		Qualifications: user.Qualifications,
		SocialMedia:    user.SocialMedia,
		ProfilePicURL:  user.ProfilePicURL,
		IsActive:       user.IsActive,
		CreatedAt:      formatTime(user.CreatedAt),
	}
}

func ToLawyerSlice(users []domain.User) []LawyerDTO {
	out := make([]LawyerDTO, len(users))
	for i, u := range users {
		out[i] = ToLawyer(u)
	}
	return out
}

func ToConnection(c domain.LawyerConnection) ConnectionDTO {
	return ConnectionDTO{
		ID:               c.ID,
		ClientID:         c.ClientID,
		LawyerID:         c.LawyerID,
		ConnectionStatus: string(c.ConnectionStatus),
		CaseDescription:  c.CaseDescription,
		ClientName:       c.ClientName,
		LawyerName:       c.LawyerName,
		CreatedAt:        formatTime(c.CreatedAt),
	}
}

func ToConnectionSlice(conns []domain.LawyerConnection) []ConnectionDTO {
	out := make([]ConnectionDTO, len(conns))
	for i, c := range conns {
		out[i] = ToConnection(c)
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
