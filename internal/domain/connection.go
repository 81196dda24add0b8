// File: internal/domain/connection.go
package domain

import "time"

type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionDeclined ConnectionStatus = "declined"
)

// LawyerConnection is a client's request to engage a lawyer.
type LawyerConnection struct {
	ID               uint             `json:"id" gorm:"primarykey"`
	ClientID         uint             `json:"client_id" gorm:"not null;uniqueIndex:idx_client_lawyer"`
	LawyerID         uint             `json:"lawyer_id" gorm:"not null;uniqueIndex:idx_client_lawyer;index"`
	ConnectionStatus ConnectionStatus `json:"connection_status" gorm:"size:20;not null;default:pending;index"`
	CaseDescription  string           `json:"case_description" gorm:"type:text"`
	ClientName       string           `json:"client_name" gorm:"size:100"`
	LawyerName       string           `json:"lawyer_name" gorm:"size:100"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	Client *User `json:"-" gorm:"foreignKey:ClientID"`
	Lawyer *User `json:"-" gorm:"foreignKey:LawyerID"`
}

// IsResponseStatus reports whether a lawyer may answer a request with s.
func IsResponseStatus(s ConnectionStatus) bool {
	return s == ConnectionAccepted || s == ConnectionDeclined
}
