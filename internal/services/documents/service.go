// File: internal/services/documents/service.go
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/iyunix/go-kanoon/internal/domain"
	docrepo "github.com/iyunix/go-kanoon/internal/repository/document"
	"github.com/iyunix/go-kanoon/internal/services/ai"
	"github.com/iyunix/go-kanoon/internal/storage"
)

// UnsupportedSummary is stored for files whose text cannot be extracted.
const UnsupportedSummary = "Document uploaded successfully. Text extraction is not yet supported for this file type."

const maxProcessingError = 500

// Logger defines the logging interface used by the document services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type Config struct {
	MaxFileSize       int64
	AllowedExtensions []string
	AnalysisChars     int
	Temperature       float32
	ProcessTimeout    time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		MaxFileSize:       50 << 20,
		AllowedExtensions: []string{"pdf", "doc", "docx", "txt"},
		AnalysisChars:     8000,
		Temperature:       0.1,
		ProcessTimeout:    2 * time.Minute,
	}
}

func (c *Config) allowed(ext string) bool {
	for _, a := range c.AllowedExtensions {
		if strings.EqualFold(strings.TrimPrefix(a, "."), ext) {
			return true
		}
	}
	return false
}

// Service handles document upload, analysis and retrieval.
type Service struct {
	config    *Config
	repo      docrepo.DocumentRepository
	store     storage.Store
	extractor *Extractor
	analyzer  *Analyzer
	logger    Logger
}

func NewService(config *Config, repo docrepo.DocumentRepository, store storage.Store, llm ai.CompletionProvider, logger Logger) *Service {
	return &Service{
		config:    config,
		repo:      repo,
		store:     store,
		extractor: NewExtractor(logger),
		analyzer:  NewAnalyzer(llm, config.AnalysisChars, config.Temperature, logger),
		logger:    logger,
	}
}

// Upload validates and stores a file, then processes it before returning.
func (s *Service) Upload(ctx context.Context, userID uint, fh *multipart.FileHeader) (*domain.Document, error) {
	if fh == nil || strings.TrimSpace(fh.Filename) == "" {
		return nil, ErrNoFile
	}
	original := filepath.Base(strings.ReplaceAll(fh.Filename, "\\", "/"))
	ext := domain.FileExtension(original)
	if ext == "" || !s.config.allowed(ext) {
		return nil, fmt.Errorf("%w. Supported: %s", ErrFileTypeNotAllowed, strings.Join(s.config.AllowedExtensions, ", "))
	}
	if fh.Size > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w. Maximum size: %dMB", ErrFileTooLarge, s.config.MaxFileSize>>20)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, s.config.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, fmt.Errorf("%w. Maximum size: %dMB", ErrFileTooLarge, s.config.MaxFileSize>>20)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension("." + ext); byExt != "" {
			contentType = byExt
		} else {
			contentType = "application/" + ext
		}
	}

	key := uuid.NewString() + "." + ext
	if err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc, err := s.repo.Create(ctx, &domain.Document{
		UserID:           userID,
		Filename:         key,
		OriginalFilename: original,
		FileSize:         int64(len(data)),
		ContentType:      contentType,
		ProcessingStatus: domain.StatusProcessing,
	})
	if err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			s.logger.Warn("failed to clean up orphaned upload", "key", key, "error", delErr)
		}
		return nil, err
	}
	s.logger.Info("document uploaded", "document_id", doc.ID, "user_id", userID, "size", doc.FileSize)

	if err := s.processData(ctx, doc, data); err != nil {
		return nil, err
	}
	return doc, nil
}

// Process reads the stored blob and runs extraction and analysis on it.
func (s *Service) Process(ctx context.Context, doc *domain.Document) error {
	data, err := s.readBlob(ctx, doc)
	if err != nil {
		return err
	}
	return s.processData(ctx, doc, data)
}

// processData records the outcome on the document. Extraction and analysis
// failures end up in the row, only storage errors are returned.
func (s *Service) processData(ctx context.Context, doc *domain.Document, data []byte) error {
	doc.ProcessingStatus = domain.StatusProcessing
	doc.ProcessingError = ""

	text, err := s.extractor.Extract(doc.Extension(), data)
	switch {
	case errors.Is(err, ErrUnsupportedExtraction):
		doc.Summary = UnsupportedSummary
		doc.Processed = true
		doc.ProcessingStatus = domain.StatusCompleted
		return s.save(ctx, doc)
	case err != nil:
		s.logger.Warn("document extraction failed", "document_id", doc.ID, "error", err)
		s.fail(doc, err)
		return s.save(ctx, doc)
	}
	doc.ExtractedText = text

	pctx, cancel := context.WithTimeout(ctx, s.config.ProcessTimeout)
	defer cancel()
	analysis, err := s.analyzer.Analyze(pctx, text)
	if err != nil {
		s.logger.Error("document analysis failed", "document_id", doc.ID, "error", err)
		s.fail(doc, errors.New("AI analysis failed"))
		return s.save(ctx, doc)
	}

	doc.Summary = analysis.Summary
	doc.KeyPoints = datatypes.NewJSONSlice([]string(analysis.KeyPoints))
	doc.LegalAnalysis = datatypes.NewJSONType(domain.DocumentAnalysis{
		ImportantSections: analysis.ImportantSections,
		LegalImplications: analysis.LegalImplications,
		Recommendations:   analysis.Recommendations,
	})
	doc.Processed = true
	doc.ProcessingStatus = domain.StatusCompleted
	s.logger.Info("document processed", "document_id", doc.ID, "text_length", len(text))
	return s.save(ctx, doc)
}

func (s *Service) fail(doc *domain.Document, cause error) {
	doc.Processed = false
	doc.ProcessingStatus = domain.StatusFailed
	msg := cause.Error()
	if utf8.RuneCountInString(msg) > maxProcessingError {
		msg = string([]rune(msg)[:maxProcessingError])
	}
	doc.ProcessingError = msg
}

func (s *Service) save(ctx context.Context, doc *domain.Document) error {
	return s.repo.Update(context.WithoutCancel(ctx), doc)
}

func (s *Service) List(ctx context.Context, userID uint) ([]domain.Document, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uint) (*domain.Document, error) {
	return s.repo.FindByIDAndUser(ctx, id, userID)
}

// Open returns the stored file for download. The caller closes the reader.
func (s *Service) Open(ctx context.Context, userID, id uint) (io.ReadCloser, *domain.Document, error) {
	doc, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.store.Open(ctx, doc.Filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrFileMissing
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return rc, doc, nil
}

// Delete removes the stored file and the record. A file that is already gone
// does not stop the record from being deleted.
func (s *Service) Delete(ctx context.Context, userID, id uint) error {
	doc, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, doc.Filename); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete stored file: %w", err)
		}
		s.logger.Warn("stored file already missing", "document_id", id, "key", doc.Filename)
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("document deleted", "document_id", id, "user_id", userID)
	return nil
}

// Reprocess runs extraction and analysis again on the stored file.
func (s *Service) Reprocess(ctx context.Context, userID, id uint) (*domain.Document, error) {
	doc, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	data, err := s.readBlob(ctx, doc)
	if err != nil {
		return nil, err
	}
	doc.ProcessingStatus = domain.StatusProcessing
	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}
	if err := s.processData(ctx, doc, data); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) readBlob(ctx context.Context, doc *domain.Document) ([]byte, error) {
	rc, err := s.store.Open(ctx, doc.Filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrFileMissing
	}
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	return data, nil
}
