package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"elibrary/internal/model"
	"elibrary/internal/repository"
	"elibrary/internal/storage"
)

const pkg = "documentService/"

var tracer = otel.Tracer("elibrary/internal/service")

// UploadInput carries an uploaded file and the metadata entered alongside it.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
	Title       string
	Description string
	TagNames    []string
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// List returns every document with its tags.
	List(ctx context.Context) ([]model.Document, error)
	// Create stores a metadata-only document and attaches the named tags.
	Create(ctx context.Context, doc *model.Document, tagNames []string) (*model.Document, error)
	// Upload stores the file content, then saves the document, removing the file again if the save fails.
	// The storage key is "<uuid>/<filename>", so uploads sharing a filename never overwrite each other.
	// FileURL is the public prefix plus the path-escaped key.
	Upload(ctx context.Context, in UploadInput) (*model.Document, error)
	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)
	// Delete removes the document and its comments, then its stored file.
	Delete(ctx context.Context, id string) error
	// FindByTag returns documents carrying a tag with exactly this name.
	FindByTag(ctx context.Context, tagName string) ([]model.Document, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	log          *slog.Logger
	store        storage.Storage
	repo         repository.DocumentRepository
	tags         repository.TagRepository
	publicPrefix string
}

// NewDocumentService constructs a new DocumentService.
// publicPrefix is the URL path under which stored files are served (e.g. "/uploads").
func NewDocumentService(
	log *slog.Logger,
	store storage.Storage,
	repo repository.DocumentRepository,
	tags repository.TagRepository,
	publicPrefix string,
) DocumentService {
	return &documentService{
		log:          log,
		store:        store,
		repo:         repo,
		tags:         tags,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}
}

func (s *documentService) List(ctx context.Context) ([]model.Document, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure("list documents", err)
	}
	return docs, nil
}

func (s *documentService) Create(ctx context.Context, doc *model.Document, tagNames []string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "DocumentService.Create")
	defer span.End()

	if doc == nil {
		return nil, fmt.Errorf("%w: document is required", ErrInvalidInput)
	}

	doc.FileKey = ""
	stored, err := s.persist(ctx, doc, tagNames)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create document")
		return nil, err
	}
	return stored, nil
}

func (s *documentService) Upload(ctx context.Context, in UploadInput) (*model.Document, error) {
	op := pkg + "Upload"
	log := s.log.With(slog.String("op", op))

	ctx, span := tracer.Start(ctx, "DocumentService.Upload", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	if in.Reader == nil {
		return nil, ErrReaderNil
	}
	name := baseFilename(in.Filename)
	if name == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	key := path.Join(uuid.NewString(), name)
	span.SetAttributes(attribute.String("storage.key", key))

	log.Debug("storing uploaded file", slog.String("key", key), slog.Int64("size", in.Size))

	if _, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	}); err != nil {
		log.Error("failed to store file", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "store file")
		return nil, fmt.Errorf("upload to storage: %w: %w", ErrIO, err)
	}

	fileURL := s.publicPrefix + (&url.URL{Path: "/" + key}).EscapedPath()
	doc := &model.Document{
		Title:       in.Title,
		Description: in.Description,
		FileURL:     &fileURL,
		FileKey:     key,
	}

	stored, err := s.persist(ctx, doc, in.TagNames)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "save document")
		// Rollback: delete the stored file
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			log.Error("rollback delete failed", slog.String("key", key), slog.String("error", delErr.Error()))
			return nil, fmt.Errorf("%w; rollback delete failed: %v", err, delErr)
		}
		return nil, err
	}

	log.Debug("document uploaded", slog.String("doc_id", stored.ID))
	return stored, nil
}

// persist stamps server-owned fields, resolves tags, and saves the document.
func (s *documentService) persist(ctx context.Context, doc *model.Document, tagNames []string) (*model.Document, error) {
	doc.ID = uuid.NewString()
	doc.UploadedAt = time.Now().UTC()
	if doc.UploadedBy != nil && doc.UploadedBy.ID == "" {
		doc.UploadedBy = nil
	}
	if doc.UploadedBy != nil {
		if _, err := uuid.Parse(doc.UploadedBy.ID); err != nil {
			return nil, fmt.Errorf("%w: uploadedBy.id %q is not a valid id", ErrInvalidInput, doc.UploadedBy.ID)
		}
	}

	tags, err := resolveTags(ctx, s.tags, tagNames)
	if err != nil {
		return nil, storageFailure("attach tags", err)
	}
	doc.Tags = tags

	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if errors.Is(err, repository.ErrMissingReference) && doc.UploadedBy != nil {
			return nil, fmt.Errorf("uploader %s: %w", doc.UploadedBy.ID, ErrNotFound)
		}
		s.log.Error("failed to save document", slog.String("op", pkg+"persist"), slog.String("error", err.Error()))
		return nil, storageFailure("db save failed", err)
	}
	return stored, nil
}

// Get returns a document by ID.
func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		return nil, storageFailure("get document", err)
	}
	return doc, nil
}

// Delete removes the document record (comments first, in one transaction) and then its file.
// A file that cannot be removed is logged and left behind; the record is already gone.
func (s *documentService) Delete(ctx context.Context, id string) error {
	op := pkg + "Delete"
	log := s.log.With(slog.String("op", op), slog.String("doc_id", id))

	ctx, span := tracer.Start(ctx, "DocumentService.Delete", trace.WithAttributes(attribute.String("document.id", id)))
	defer span.End()

	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("document %s: %w", id, ErrNotFound)
		}
		log.Error("failed to delete document", slog.String("error", err.Error()))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete document")
		return storageFailure("delete document", err)
	}

	if doc.FileKey != "" {
		if err := s.store.Delete(ctx, doc.FileKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn("failed to delete stored file", slog.String("key", doc.FileKey), slog.String("error", err.Error()))
		}
	}

	log.Debug("document deleted")
	return nil
}

func (s *documentService) FindByTag(ctx context.Context, tagName string) ([]model.Document, error) {
	if tagName == "" {
		return nil, fmt.Errorf("%w: tag is required", ErrInvalidInput)
	}
	docs, err := s.repo.ListByTagName(ctx, tagName)
	if err != nil {
		return nil, storageFailure("search documents", err)
	}
	return docs, nil
}

// baseFilename strips any client-side directory components from an upload name.
func baseFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	switch name {
	case ".", "/", "..":
		return ""
	}
	return name
}
