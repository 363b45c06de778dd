package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/infrastructure/metrics"
	pkgai "github.com/johnquangdev/atlas/pkg/ai"
)

// Completer sends a chat completion request to the model
type Completer interface {
	Complete(ctx context.Context, req pkgai.CompletionRequest) (string, error)
}

// Transcriber converts a recording into text
type Transcriber interface {
	TranscribeURL(ctx context.Context, audioURL string) (string, error)
}

// Service defines the model-backed operations
type Service interface {
	ProcessTranscript(ctx context.Context, transcript string) (*entities.ProcessedMeeting, error)
	Chat(ctx context.Context, messages []pkgai.Message, context, model string) (string, error)
	Transcribe(ctx context.Context, audioURL string) (string, error)
}

type aiService struct {
	completer   Completer
	transcriber Transcriber
	parser      *Parser
	ownerName   string
	maxTokens   int
	now         func() time.Time
	logger      *zap.Logger
}

// NewAIService constructs a new AI service. transcriber may be nil.
func NewAIService(completer Completer, transcriber Transcriber, ownerName string, maxTokens int, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &aiService{
		completer:   completer,
		transcriber: transcriber,
		parser:      NewParser(),
		ownerName:   ownerName,
		maxTokens:   maxTokens,
		now:         time.Now,
		logger:      logger,
	}
}

// ProcessTranscript extracts title, summary, action items, decisions and topics
func (s *aiService) ProcessTranscript(ctx context.Context, transcript string) (*entities.ProcessedMeeting, error) {
	start := time.Now()
	content, err := s.completer.Complete(ctx, pkgai.CompletionRequest{
		System:    ProcessorSystemPrompt,
		Messages:  []pkgai.Message{{Role: string(entities.ChatRoleUser), Content: ProcessorUserPrompt(transcript)}},
		MaxTokens: s.maxTokens,
	})
	metrics.ObserveLLM("process", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error("ai.process.failed", zap.Error(err))
		return nil, appErrors.ErrProcessingFailed(err)
	}

	processed, err := s.parser.ParseProcessedMeeting(content)
	if err != nil {
		s.logger.Error("ai.process.parse_failed",
			zap.Int("response_chars", len(content)),
			zap.Error(err),
		)
		return nil, appErrors.ErrProcessingFailed(err)
	}

	s.logger.Info("ai.process.completed",
		zap.String("title", processed.Title),
		zap.Int("action_items", len(processed.ActionItems)),
		zap.Int("decisions", len(processed.Decisions)),
	)
	return processed, nil
}

// Chat answers the conversation using the assistant prompt and optional context
func (s *aiService) Chat(ctx context.Context, messages []pkgai.Message, context, model string) (string, error) {
	start := time.Now()
	reply, err := s.completer.Complete(ctx, pkgai.CompletionRequest{
		System:    AssistantSystemPrompt(s.ownerName, s.now(), context),
		Messages:  messages,
		Model:     model,
		MaxTokens: s.maxTokens,
	})
	metrics.ObserveLLM("chat", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error("ai.chat.failed", zap.Error(err))
		return "", appErrors.ErrChatFailed(err)
	}
	return reply, nil
}

// Transcribe returns the text of the recording at audioURL
func (s *aiService) Transcribe(ctx context.Context, audioURL string) (string, error) {
	if s.transcriber == nil {
		return "", appErrors.ErrAIServiceUnavailable("transcription")
	}

	start := time.Now()
	text, err := s.transcriber.TranscribeURL(ctx, audioURL)
	metrics.ObserveLLM("transcribe", time.Since(start).Seconds(), err)
	if err != nil {
		s.logger.Error("ai.transcribe.failed", zap.String("audio_url", audioURL), zap.Error(err))
		return "", appErrors.ErrTranscriptionFailed(fmt.Errorf("transcribe %s: %w", audioURL, err))
	}
	return text, nil
}
