// Package backend provides the text-generation clients the router delegates to.
package backend

import (
	"context"
	"errors"

	"github.com/rcliao/mhr-assist/internal/window"
)

// Sampling holds the fixed generation settings.
type Sampling struct {
	Temperature   float32
	HistoryWindow int
}

// DefaultSampling is the sampling used for every backend call.
var DefaultSampling = Sampling{
	Temperature:   0.2,
	HistoryWindow: window.DefaultSize,
}

// ErrNoAPIKey is returned when a hosted backend is configured without a key.
var ErrNoAPIKey = errors.New("backend: API key is required")

// Generator produces a reply for newMessage given a system instruction and
// the windowed conversation that precedes it.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, history []window.Turn, newMessage string, cfg Sampling) (string, error)
}
