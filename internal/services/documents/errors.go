// File: internal/services/documents/errors.go
package documents

import (
	"errors"

	docrepo "github.com/iyunix/go-kanoon/internal/repository/document"
)

var (
	ErrDocumentNotFound      = docrepo.ErrDocumentNotFound
	ErrNoFile                = errors.New("no file selected")
	ErrFileTypeNotAllowed    = errors.New("file type not allowed")
	ErrFileTooLarge          = errors.New("file too large")
	ErrFileMissing           = errors.New("document file not found")
	ErrUnsupportedExtraction = errors.New("text extraction is not supported for this file type")
	ErrNoText                = errors.New("no text could be extracted")
)
