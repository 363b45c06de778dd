package ai

import (
	"context"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/atlas/pkg/config"
	"github.com/johnquangdev/atlas/pkg/retry"
)

// Transcriber turns a recording URL into plain text through AssemblyAI
type Transcriber struct {
	client *aai.Client
	policy retry.Policy
	logger *zap.Logger
}

// NewTranscriber returns nil when no API key is configured
func NewTranscriber(cfg *config.AssemblyAIConfig, logger *zap.Logger) *Transcriber {
	if cfg == nil || cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcriber{
		client: aai.NewClient(cfg.APIKey),
		policy: retry.DefaultPolicy(),
		logger: logger,
	}
}

// TranscribeURL submits the audio URL and waits for the finished transcript
func (t *Transcriber) TranscribeURL(ctx context.Context, audioURL string) (string, error) {
	audioURL = strings.TrimSpace(audioURL)
	if audioURL == "" {
		return "", fmt.Errorf("audio URL is required")
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}

	var text string
	err := retry.Do(ctx, t.policy, func(ctx context.Context) error {
		transcript, err := t.client.Transcripts.TranscribeFromURL(ctx, audioURL, params)
		if err != nil {
			return fmt.Errorf("assemblyai transcription failed: %w", err)
		}

		if transcript.Status == aai.TranscriptStatusError {
			msg := "unknown error"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return retry.Permanent(fmt.Errorf("assemblyai error: %s", msg))
		}

		if transcript.Text == nil || strings.TrimSpace(*transcript.Text) == "" {
			return retry.Permanent(fmt.Errorf("assemblyai returned an empty transcript"))
		}

		text = *transcript.Text
		if transcript.ID != nil {
			t.logger.Info("transcription.completed",
				zap.String("transcript_id", *transcript.ID),
				zap.Int("chars", len(text)),
			)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
