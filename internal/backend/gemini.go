package backend

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/rcliao/mhr-assist/internal/window"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiOptions configures a Gemini client.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string // overrides the API endpoint, used by tests
}

// Gemini implements Generator on the Google GenAI SDK.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: opts.Model}, nil
}

// Generate sends the windowed history plus newMessage as one request.
func (g *Gemini) Generate(ctx context.Context, systemInstruction string, history []window.Turn, newMessage string, cfg Sampling) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, genai.NewContentFromText(turn.Text, geminiRole(turn.Role)))
	}
	contents = append(contents, genai.NewContentFromText(newMessage, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(cfg.Temperature),
	}
	if systemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(systemInstruction, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

// geminiRole maps a window role onto the SDK's role type.
func geminiRole(role string) genai.Role {
	if role == window.RoleModel {
		return genai.RoleModel
	}
	return genai.RoleUser
}

// Name returns the backend name.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}
