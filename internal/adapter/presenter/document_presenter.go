package presenter

import (
	documentDTO "github.com/johnquangdev/atlas/internal/adapter/dto/document"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// ToDocumentResponse converts a Document entity to DocumentResponse DTO
func ToDocumentResponse(d *entities.Document) *documentDTO.DocumentResponse {
	if d == nil {
		return nil
	}
	return &documentDTO.DocumentResponse{
		ID:        d.ID.String(),
		Title:     d.Title,
		Content:   d.Content,
		FileType:  d.FileType,
		FileSize:  d.FileSize,
		MimeType:  d.MimeType,
		Tags:      []string(d.Tags),
		HasFile:   d.StorageKey != nil && *d.StorageKey != "",
		CreatedAt: d.CreatedAt,
	}
}

// ToDocumentResponses converts a slice of documents
func ToDocumentResponses(docs []*entities.Document) []*documentDTO.DocumentResponse {
	out := make([]*documentDTO.DocumentResponse, len(docs))
	for i, d := range docs {
		out[i] = ToDocumentResponse(d)
	}
	return out
}
