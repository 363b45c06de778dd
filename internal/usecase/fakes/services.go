package fakes

import (
	"context"
	"sync"

	pkgai "github.com/johnquangdev/atlas/pkg/ai"
)

// Completer records requests and returns a canned reply
type Completer struct {
	mu       sync.Mutex
	Reply    string
	Err      error
	Requests []pkgai.CompletionRequest
}

func (c *Completer) Complete(_ context.Context, req pkgai.CompletionRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Requests = append(c.Requests, req)
	if c.Err != nil {
		return "", c.Err
	}
	return c.Reply, nil
}

// Last returns the most recent request
func (c *Completer) Last() pkgai.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Requests) == 0 {
		return pkgai.CompletionRequest{}
	}
	return c.Requests[len(c.Requests)-1]
}

// Transcriber returns a fixed transcript
type Transcriber struct {
	Text string
	Err  error
	URLs []string
}

func (t *Transcriber) TranscribeURL(_ context.Context, audioURL string) (string, error) {
	t.URLs = append(t.URLs, audioURL)
	return t.Text, t.Err
}

// Mailer records sent magic links
type Mailer struct {
	mu   sync.Mutex
	Sent map[string]string
	Err  error
}

func (m *Mailer) SendMagicLink(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if m.Sent == nil {
		m.Sent = make(map[string]string)
	}
	m.Sent[to] = link
	return nil
}
