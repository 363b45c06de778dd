package presenter

import (
	chatDTO "github.com/johnquangdev/atlas/internal/adapter/dto/chat"
	"github.com/johnquangdev/atlas/internal/domain/entities"
)

// ToHistoryResponses converts stored chat messages
func ToHistoryResponses(messages []*entities.ChatMessage) []*chatDTO.HistoryMessageResponse {
	out := make([]*chatDTO.HistoryMessageResponse, len(messages))
	for i, m := range messages {
		out[i] = &chatDTO.HistoryMessageResponse{
			ID:        m.ID.String(),
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}
