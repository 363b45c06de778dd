package document

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/infrastructure/metrics"
	"github.com/johnquangdev/atlas/internal/infrastructure/storage"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
)

// AcceptedExtensions lists the file extensions accepted for upload
var AcceptedExtensions = []string{".pdf", ".docx", ".txt", ".md", ".png", ".jpg", ".jpeg", ".gif"}

// AcceptedMIMETypes lists the MIME types accepted for upload
var AcceptedMIMETypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"text/markdown",
	"image/png",
	"image/jpeg",
	"image/gif",
}

const downloadURLExpiry = 15 * time.Minute

var errStorageDisabled = stdErrors.New("object storage is not configured")

// ObjectStore stores raw document bytes
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key, filename string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ContextInvalidator drops cached chat context for a user
type ContextInvalidator interface {
	Invalidate(userID uuid.UUID)
}

// UploadInput is one uploaded file
type UploadInput struct {
	UserID      uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
	Title       string
	Tags        string
}

// Service handles document business logic
type Service struct {
	docRepo     repositories.DocumentRepository
	store       ObjectStore
	invalidator ContextInvalidator
	maxBytes    int64
	logger      *zap.Logger
}

// NewService creates a new document service. store and invalidator may be nil;
// without a store only metadata and text content are kept.
func NewService(
	docRepo repositories.DocumentRepository,
	store ObjectStore,
	invalidator ContextInvalidator,
	maxBytes int64,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		docRepo:     docRepo,
		store:       store,
		invalidator: invalidator,
		maxBytes:    maxBytes,
		logger:      logger,
	}
}

// MaxBytes is the upload size limit
func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// Upload validates, stores and records a document
func (s *Service) Upload(ctx context.Context, input UploadInput) (*entities.Document, error) {
	filename := path.Base(strings.ReplaceAll(strings.TrimSpace(input.Filename), "\\", "/"))
	if filename == "." || filename == "/" || filename == "" {
		return nil, appErrors.ErrInvalidArgument(usecaseErrors.MsgDocumentTitleNeeded)
	}
	if s.maxBytes > 0 && int64(len(input.Data)) > s.maxBytes {
		metrics.DocumentUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, appErrors.ErrPayloadTooLarge(s.maxBytes)
	}

	detected := mimetype.Detect(input.Data)
	declared := baseMIME(input.ContentType)
	if !Accepted(filename, declared, detected) {
		metrics.DocumentUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, appErrors.ErrDocumentTypeRejected(AcceptedExtensions)
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSpace(TitleFromFilename(filename))
	}
	if title == "" {
		return nil, appErrors.ErrInvalidArgument(usecaseErrors.MsgDocumentTitleNeeded)
	}

	doc := entities.NewDocument(input.UserID, title, FileType(filename))
	size := int64(len(input.Data))
	doc.FileSize = &size
	doc.MimeType = declared
	if doc.MimeType == "" || doc.MimeType == "application/octet-stream" {
		doc.MimeType = baseMIME(detected.String())
	}
	doc.Tags = entities.ParseTagList(input.Tags)

	content := extractContent(filename, declared, input.Data)
	doc.Content = &content

	if s.store != nil {
		key := storage.DocumentKey(input.UserID, doc.FileType)
		if err := s.store.Upload(ctx, key, bytes.NewReader(input.Data), size, doc.MimeType); err != nil {
			metrics.DocumentUploadsTotal.WithLabelValues("failed").Inc()
			return nil, appErrors.ErrStorageFailed("upload", err)
		}
		doc.StorageKey = &key
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		metrics.DocumentUploadsTotal.WithLabelValues("failed").Inc()
		if doc.StorageKey != nil {
			if delErr := s.store.Delete(ctx, *doc.StorageKey); delErr != nil {
				s.logger.Warn("document.orphan_object", zap.String("key", *doc.StorageKey), zap.Error(delErr))
			}
		}
		return nil, appErrors.ErrDBQueryFailed("create document", err)
	}

	metrics.DocumentUploadsTotal.WithLabelValues("accepted").Inc()
	metrics.DocumentUploadBytes.Observe(float64(size))
	s.invalidate(input.UserID)

	s.logger.Info("document.uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("file_type", doc.FileType),
		zap.Int64("bytes", size),
	)
	return doc, nil
}

// Get returns one document
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Document, error) {
	doc, err := s.docRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, id)
	}
	return doc, nil
}

// List returns documents, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Document, int64, error) {
	docs, total, err := s.docRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, appErrors.ErrDBQueryFailed("list documents", err)
	}
	return docs, total, nil
}

// DownloadURL returns a presigned URL for the stored file
func (s *Service) DownloadURL(ctx context.Context, userID, id uuid.UUID) (string, time.Duration, error) {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", 0, err
	}
	if doc.StorageKey == nil {
		return "", 0, appErrors.ErrNotFound("Document file")
	}
	if s.store == nil {
		return "", 0, appErrors.ErrStorageFailed("download", errStorageDisabled)
	}

	filename := doc.Title
	if doc.FileType != "unknown" {
		filename = fmt.Sprintf("%s.%s", doc.Title, doc.FileType)
	}
	u, err := s.store.PresignedURL(ctx, *doc.StorageKey, filename, downloadURLExpiry)
	if err != nil {
		return "", 0, appErrors.ErrStorageFailed("presign", err)
	}
	return u, downloadURLExpiry, nil
}

// Delete removes a document and its stored file
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.docRepo.Delete(ctx, userID, id); err != nil {
		return usecaseErrors.FromDomain(err, id)
	}
	s.invalidate(userID)

	if doc.StorageKey != nil && s.store != nil {
		if err := s.store.Delete(ctx, *doc.StorageKey); err != nil {
			s.logger.Warn("document.object_delete_failed",
				zap.String("document_id", id.String()),
				zap.String("key", *doc.StorageKey),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Service) invalidate(userID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(userID)
	}
}
