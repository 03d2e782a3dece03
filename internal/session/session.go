// Package session holds the state of one clinician conversation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/model"
	"github.com/rcliao/mhr-assist/internal/store"
)

var (
	// ErrBusy is returned when a submission arrives while another is in flight.
	ErrBusy = errors.New("session: a request is already in progress")
	// ErrBlank is returned for empty or whitespace-only input.
	ErrBlank = errors.New("session: message is blank")
)

// Responder produces one assistant reply for a user turn.
type Responder interface {
	Respond(ctx context.Context, history []model.Message, text string) string
}

// Session owns a conversation log and the transcript text captured for it.
type Session struct {
	log       store.Store
	responder Responder
	matcher   *keyword.Matcher
	logger    *zap.Logger

	busy atomic.Bool

	mu         sync.RWMutex
	transcript string
}

// New creates a Session over log.
func New(log store.Store, responder Responder, matcher *keyword.Matcher, logger *zap.Logger) *Session {
	if matcher == nil {
		matcher = keyword.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		log:       log,
		responder: responder,
		matcher:   matcher,
		logger:    logger,
	}
}

// Submit appends text as a user message, asks the responder for a reply
// and appends the reply. The responder sees the history as it was before
// this turn. Only one Submit may run at a time.
func (s *Session) Submit(ctx context.Context, text string) (*model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlank
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	history, err := s.log.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if _, err := s.log.Append(ctx, store.AppendParams{Role: model.RoleUser, Content: text}); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}

	reply := s.responder.Respond(ctx, history, text)

	msg, err := s.log.Append(ctx, store.AppendParams{Role: model.RoleAssistant, Content: reply})
	if err != nil {
		return nil, fmt.Errorf("append reply: %w", err)
	}
	s.logger.Debug("turn complete", zap.String("reply_id", msg.ID), zap.Int("history", len(history)))
	return msg, nil
}

// Busy reports whether a submission is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Messages returns the conversation so far.
func (s *Session) Messages(ctx context.Context) ([]model.Message, error) {
	return s.log.List(ctx)
}

// SetTranscript replaces the consultation transcript text.
func (s *Session) SetTranscript(text string) {
	s.mu.Lock()
	s.transcript = text
	s.mu.Unlock()
}

// Transcript returns the current transcript text.
func (s *Session) Transcript() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transcript
}

// Keywords returns the keyword panel: tags from user messages then the
// transcript, unique, at most keyword.PanelLimit.
func (s *Session) Keywords(ctx context.Context) ([]string, error) {
	msgs, err := s.log.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.Collect(msgs, s.Transcript(), keyword.PanelLimit), nil
}

// Summary returns the final note, the most recent assistant reply. It is
// empty before the first reply.
func (s *Session) Summary(ctx context.Context) (string, error) {
	m, err := s.log.Last(ctx, model.RoleAssistant)
	if err != nil || m == nil {
		return "", err
	}
	return m.Content, nil
}
