// Package router decides whether a user turn is answered from the simulated
// health record or delegated to a generative backend.
package router

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rcliao/mhr-assist/internal/backend"
	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/model"
	"github.com/rcliao/mhr-assist/internal/record"
	"github.com/rcliao/mhr-assist/internal/window"
)

// SystemInstruction is the persona sent with every backend call.
const SystemInstruction = `You are "Heidi Assist", the AI clinician assistant inside Heidi Pro.
You respond in a concise, clinical, factual tone with no emojis and no markdown.`

// User-visible replies for turns the backend could not answer.
const (
	FallbackReply = "Unable to complete the request right now."
	EmptyReply    = "No response was generated. Please try rephrasing."
)

// Router answers user turns. It holds no conversation state; the history is
// passed in on every call.
type Router struct {
	matcher  *keyword.Matcher
	records  *record.Store
	backend  backend.Generator
	sampling backend.Sampling
	logger   *zap.Logger
}

// Option customizes a Router.
type Option func(*Router)

// WithLogger sets the logger used for routing diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMatcher replaces the default keyword matcher.
func WithMatcher(m *keyword.Matcher) Option {
	return func(r *Router) { r.matcher = m }
}

// WithRecords replaces the default simulated record.
func WithRecords(s *record.Store) Option {
	return func(r *Router) { r.records = s }
}

// New creates a Router delegating unrecognized turns to gen.
func New(gen backend.Generator, opts ...Option) *Router {
	r := &Router{
		matcher:  keyword.Default(),
		records:  record.Default(),
		backend:  gen,
		sampling: backend.DefaultSampling,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Respond returns exactly one assistant reply for text. A recognized record
// category is always answered from the record without calling the backend.
// Backend failures become FallbackReply and are never returned.
func (r *Router) Respond(ctx context.Context, history []model.Message, text string) string {
	if category, ok := r.matcher.DetectCategory(text); ok {
		r.logger.Debug("answered from record", zap.String("category", string(category)))
		return r.records.Answer(category)
	}

	if r.backend == nil {
		r.logger.Error("no backend configured")
		return FallbackReply
	}

	turns := window.Build(history, r.sampling.HistoryWindow)
	r.logger.Debug("delegating to backend", zap.Int("window", len(turns)), zap.Int("history", len(history)))

	reply, err := r.generate(ctx, turns, text)
	if err != nil {
		r.logger.Error("backend generate failed", zap.Error(err))
		return FallbackReply
	}
	if strings.TrimSpace(reply) == "" {
		r.logger.Warn("backend returned empty reply")
		return EmptyReply
	}
	return reply
}

// generate calls the backend, turning a panic into an error.
func (r *Router) generate(ctx context.Context, turns []window.Turn, text string) (reply string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("backend panic: %v", p)
		}
	}()
	return r.backend.Generate(ctx, SystemInstruction, turns, text, r.sampling)
}
