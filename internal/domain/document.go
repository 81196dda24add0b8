// File: internal/domain/document.go
package domain

import (
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// DocumentAnalysis is the structured part of an LLM document review.
type DocumentAnalysis struct {
	ImportantSections []string `json:"important_sections"`
	LegalImplications []string `json:"legal_implications"`
	Recommendations   []string `json:"recommendations"`
}

// Document is an uploaded file and the result of analysing it.
type Document struct {
	ID               uint   `json:"id" gorm:"primarykey"`
	UserID           uint   `json:"user_id" gorm:"not null;index"`
	Filename         string `json:"filename" gorm:"size:255;not null;uniqueIndex"`
	OriginalFilename string `json:"original_filename" gorm:"size:255;not null"`
	FileSize         int64  `json:"file_size"`
	ContentType      string `json:"content_type" gorm:"size:100"`

	ExtractedText string                               `json:"-" gorm:"type:text"`
	Summary       string                               `json:"summary" gorm:"type:text"`
	KeyPoints     datatypes.JSONSlice[string]          `json:"key_points"`
	LegalAnalysis datatypes.JSONType[DocumentAnalysis] `json:"legal_analysis"`

	Processed        bool             `json:"processed" gorm:"not null;default:false"`
	ProcessingStatus ProcessingStatus `json:"processing_status" gorm:"size:20;not null;default:pending;index"`
	ProcessingError  string           `json:"processing_error,omitempty" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Extension returns the lower-cased extension of the original upload, without the dot.
func (d *Document) Extension() string {
	return FileExtension(d.OriginalFilename)
}

func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
