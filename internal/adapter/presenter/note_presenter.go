package presenter

import (
	noteDTO "github.com/johnquangdev/atlas/internal/adapter/dto/note"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// ToNoteResponse converts a Note entity to NoteResponse DTO
func ToNoteResponse(n *entities.Note) *noteDTO.NoteResponse {
	if n == nil {
		return nil
	}
	return &noteDTO.NoteResponse{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Tags:      []string(n.Tags),
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// ToNoteResponses converts a slice of notes
func ToNoteResponses(notes []*entities.Note) []*noteDTO.NoteResponse {
	out := make([]*noteDTO.NoteResponse, len(notes))
	for i, n := range notes {
		out[i] = ToNoteResponse(n)
	}
	return out
}
