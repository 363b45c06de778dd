package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	pkgai "github.com/johnquangdev/atlas/pkg/ai"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// ContextCache holds built context per user
type ContextCache interface {
	Get(userID uuid.UUID) (string, bool)
	Set(userID uuid.UUID, value string)
}

// Input is one chat request
type Input struct {
	UserID   uuid.UUID
	Messages []pkgai.Message
	Context  string
	Model    string
}

// Service answers chat requests and keeps the conversation history
type Service struct {
	ai       ai.Service
	builder  *ContextBuilder
	cache    ContextCache
	chatRepo repositories.ChatRepository
	logger   *zap.Logger
}

// NewService creates a new chat service. cache may be nil.
func NewService(
	aiService ai.Service,
	builder *ContextBuilder,
	cache ContextCache,
	chatRepo repositories.ChatRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:       aiService,
		builder:  builder,
		cache:    cache,
		chatRepo: chatRepo,
		logger:   logger,
	}
}

// Chat validates the conversation, enriches it with context and returns the reply
func (s *Service) Chat(ctx context.Context, input Input) (string, error) {
	if len(input.Messages) == 0 {
		return "", appErrors.ErrInvalidArgument(usecaseErrors.MsgMessagesEmpty)
	}
	for _, m := range input.Messages {
		if !entities.ChatRole(m.Role).IsValid() {
			return "", appErrors.ErrInvalidArgument("Message role must be user or assistant")
		}
		if strings.TrimSpace(m.Content) == "" {
			return "", appErrors.ErrInvalidArgument("Message content cannot be empty")
		}
	}

	chatContext := input.Context
	if chatContext == "" {
		chatContext = s.context(ctx, input.UserID)
	}

	reply, err := s.ai.Chat(ctx, input.Messages, chatContext, input.Model)
	if err != nil {
		return "", err
	}

	s.record(ctx, input.UserID, input.Messages, reply)
	return reply, nil
}

func (s *Service) context(ctx context.Context, userID uuid.UUID) string {
	if s.cache != nil {
		if cached, ok := s.cache.Get(userID); ok {
			return cached
		}
	}

	built, complete := s.builder.Build(ctx, userID)
	if complete && s.cache != nil {
		s.cache.Set(userID, built)
	}
	return built
}

// record appends the latest user turn and the reply. Failures are only logged.
func (s *Service) record(ctx context.Context, userID uuid.UUID, messages []pkgai.Message, reply string) {
	var toStore []*entities.ChatMessage
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == string(entities.ChatRoleUser) {
			toStore = append(toStore, entities.NewChatMessage(userID, entities.ChatRoleUser, messages[i].Content))
			break
		}
	}
	// created_at is stored at microsecond precision and is the only ordering key
	assistant := entities.NewChatMessage(userID, entities.ChatRoleAssistant, reply)
	assistant.CreatedAt = assistant.CreatedAt.Truncate(time.Microsecond)
	if len(toStore) > 0 {
		user := toStore[0]
		user.CreatedAt = user.CreatedAt.Truncate(time.Microsecond)
		if !assistant.CreatedAt.After(user.CreatedAt) {
			assistant.CreatedAt = user.CreatedAt.Add(time.Microsecond)
		}
	}
	toStore = append(toStore, assistant)

	if err := s.chatRepo.Append(ctx, toStore...); err != nil {
		s.logger.Warn("chat.history.append_failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// History returns the latest messages, oldest first
func (s *Service) History(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.ChatMessage, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	msgs, err := s.chatRepo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.ErrDBQueryFailed("list chat history", err)
	}
	return msgs, nil
}

// ClearHistory deletes the user's conversation
func (s *Service) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	if err := s.chatRepo.Clear(ctx, userID); err != nil {
		return appErrors.ErrDBQueryFailed("clear chat history", err)
	}
	return nil
}
