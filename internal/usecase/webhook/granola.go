package webhook

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stdErrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/atlas/errors"
	"github.com/johnquangdev/atlas/internal/domain/entities"
	"github.com/johnquangdev/atlas/internal/domain/repositories"
	"github.com/johnquangdev/atlas/internal/infrastructure/lock"
	"github.com/johnquangdev/atlas/internal/infrastructure/metrics"
	"github.com/johnquangdev/atlas/internal/usecase/ai"
	usecaseErrors "github.com/johnquangdev/atlas/internal/usecase/errors"
	"github.com/johnquangdev/atlas/internal/usecase/meeting"
)

const (
	sourceGranola      = "granola"
	defaultTitle       = "Untitled Meeting"
	unassigned         = "Unassigned"
	deliveryLockTTL    = 3 * time.Minute
	deliveryLockPrefix = "webhook:granola:"
)

// GranolaPayload is the body Granola posts
type GranolaPayload struct {
	Title      string `json:"title"`
	Transcript string `json:"transcript"`
	Notes      string `json:"notes"`
	Content    string `json:"content"`
	Date       string `json:"date"`
	CreatedAt  string `json:"created_at"`
}

// normalized picks the first non-empty transcript, title and date fields
func (p GranolaPayload) normalized(now time.Time) (transcript, title string, date time.Time, dateErr error) {
	transcript = firstNonEmpty(p.Transcript, p.Notes, p.Content)
	title = firstNonEmpty(p.Title, defaultTitle)

	rawDate := firstNonEmpty(p.Date, p.CreatedAt)
	if rawDate == "" {
		return transcript, title, now, nil
	}
	date, dateErr = entities.ParseMeetingDate(rawDate)
	if dateErr != nil {
		return transcript, title, now, dateErr
	}
	return transcript, title, date, nil
}

// Result is returned to the webhook caller
type Result struct {
	Success          bool   `json:"success"`
	MeetingID        string `json:"meeting_id"`
	Title            string `json:"title"`
	ActionItemsCount int    `json:"action_items_count"`
}

// GranolaService turns Granola deliveries into meetings and tasks
type GranolaService struct {
	userRepo   repositories.UserRepository
	meetings   meeting.Service
	ai         ai.Service
	locker     lock.Locker
	ownerEmail string
	now        func() time.Time
	logger     *zap.Logger
}

// NewGranolaService creates a new GranolaService. ownerEmail selects the owning user;
// when empty the earliest user is used.
func NewGranolaService(
	userRepo repositories.UserRepository,
	meetings meeting.Service,
	aiService ai.Service,
	locker lock.Locker,
	ownerEmail string,
	logger *zap.Logger,
) *GranolaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GranolaService{
		userRepo:   userRepo,
		meetings:   meetings,
		ai:         aiService,
		locker:     locker,
		ownerEmail: entities.NormalizeEmail(ownerEmail),
		now:        time.Now,
		logger:     logger,
	}
}

// Receive processes one raw delivery
func (s *GranolaService) Receive(ctx context.Context, body []byte) (*Result, error) {
	result, err := s.receive(ctx, body)
	outcome := "saved"
	if err != nil {
		outcome = "error"
		var appErr appErrors.AppError
		if stdErrors.As(err, &appErr) && appErr.Code == appErrors.ErrorCode_WEBHOOK_IN_PROGRESS {
			outcome = "duplicate"
		}
	}
	metrics.WebhookDeliveriesTotal.WithLabelValues(sourceGranola, outcome).Inc()
	return result, err
}

func (s *GranolaService) receive(ctx context.Context, body []byte) (*Result, error) {
	var payload GranolaPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, appErrors.ErrInvalidPayload()
	}

	transcript, title, date, dateErr := payload.normalized(s.now().UTC())
	if dateErr != nil {
		s.logger.Warn("webhook.granola.bad_date", zap.Error(dateErr))
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, appErrors.ErrInvalidArgument(usecaseErrors.MsgTranscriptEmpty)
	}

	unlock, err := s.locker.TryLock(ctx, deliveryLockPrefix+hashHex(body), deliveryLockTTL)
	if err != nil {
		if stdErrors.Is(err, lock.ErrLocked) {
			return nil, appErrors.ErrWebhookInProgress()
		}
		return nil, appErrors.ErrCacheFailed("acquire webhook lock", err)
	}
	defer unlock()

	owner, err := s.resolveOwner(ctx)
	if err != nil {
		return nil, err
	}

	processed, err := s.ai.ProcessTranscript(ctx, transcript)
	if err != nil {
		return nil, err
	}

	summary := processed.Summary
	detail, err := s.meetings.Create(ctx, meeting.CreateMeetingInput{
		UserID:           owner.ID,
		Title:            firstNonEmpty(processed.Title, title),
		Date:             date,
		RawTranscript:    transcript,
		Summary:          &summary,
		ActionItems:      processed.ActionItems,
		Decisions:        processed.Decisions,
		KeyTopics:        processed.KeyTopics,
		Source:           entities.MeetingSourceGranola,
		AssigneeFallback: unassigned,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("webhook.granola.saved",
		zap.String("meeting_id", detail.Meeting.ID.String()),
		zap.String("user_id", owner.ID.String()),
		zap.Int("action_items", len(processed.ActionItems)),
	)

	return &Result{
		Success:          true,
		MeetingID:        detail.Meeting.ID.String(),
		Title:            detail.Meeting.Title,
		ActionItemsCount: len(processed.ActionItems),
	}, nil
}

func (s *GranolaService) resolveOwner(ctx context.Context) (*entities.User, error) {
	var (
		user *entities.User
		err  error
	)
	if s.ownerEmail != "" {
		user, err = s.userRepo.FindByEmail(ctx, s.ownerEmail)
	} else {
		user, err = s.userRepo.FindFirst(ctx)
	}
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return nil, appErrors.ErrNoWebhookOwner()
		}
		return nil, appErrors.ErrDBQueryFailed("resolve webhook owner", err)
	}
	return user, nil
}

func hashHex(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
