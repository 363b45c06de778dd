package note

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
)

// NoteInput carries the writable fields of a note
type NoteInput struct {
	Title   string
	Content string
	Tags    []string
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return appErrors.ErrInvalidArgument("Title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return appErrors.ErrInvalidArgument("Content is required")
	}
	return nil
}

// Service handles note business logic
type Service struct {
	noteRepo repositories.NoteRepository
}

// NewService creates a new note service
func NewService(noteRepo repositories.NoteRepository) *Service {
	return &Service{noteRepo: noteRepo}
}

// Create creates a note
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input NoteInput) (*entities.Note, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	n := entities.NewNote(userID, strings.TrimSpace(input.Title), input.Content, input.Tags)
	if err := s.noteRepo.Create(ctx, n); err != nil {
		return nil, appErrors.ErrDBQueryFailed("create note", err)
	}
	return n, nil
}

// Get returns one note
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Note, error) {
	n, err := s.noteRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, id)
	}
	return n, nil
}

// List returns notes, most recently updated first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Note, int64, error) {
	notes, total, err := s.noteRepo.List(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, appErrors.ErrDBQueryFailed("list notes", err)
	}
	return notes, total, nil
}

// Update replaces title, content and tags
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, input NoteInput) (*entities.Note, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	n, err := s.noteRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, usecaseErrors.FromDomain(err, id)
	}

	n.Title = strings.TrimSpace(input.Title)
	n.Content = input.Content
	n.Tags = entities.NormalizeTags(input.Tags)
	n.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(ctx, n); err != nil {
		return nil, appErrors.ErrDBQueryFailed("update note", err)
	}
	return n, nil
}

// Delete removes a note
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.noteRepo.Delete(ctx, userID, id); err != nil {
		return usecaseErrors.FromDomain(err, id)
	}
	return nil
}
