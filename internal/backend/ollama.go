package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rcliao/mhr-assist/internal/window"
)

// DefaultOllamaModel is the local model used when none is configured.
const DefaultOllamaModel = "llama3.2"

// Ollama implements Generator on a local Ollama server's chat API.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama generator. Empty arguments fall back to
// http://localhost:11434 and DefaultOllamaModel.
func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Generate calls /api/chat without streaming.
func (o *Ollama) Generate(ctx context.Context, systemInstruction string, history []window.Turn, newMessage string, cfg Sampling) (string, error) {
	msgs := make([]ollamaMessage, 0, len(history)+2)
	if systemInstruction != "" {
		msgs = append(msgs, ollamaMessage{Role: "system", Content: systemInstruction})
	}
	for _, turn := range history {
		role := "user"
		if turn.Role == window.RoleModel {
			role = "assistant"
		}
		msgs = append(msgs, ollamaMessage{Role: role, Content: turn.Text})
	}
	msgs = append(msgs, ollamaMessage{Role: "user", Content: newMessage})

	jsonData, err := json.Marshal(ollamaChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   false,
		Options:  ollamaOptions{Temperature: cfg.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/chat", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return chatResp.Message.Content, nil
}

// Name returns the backend name.
func (o *Ollama) Name() string {
	return "ollama:" + o.model
}
