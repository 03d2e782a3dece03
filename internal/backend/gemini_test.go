package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/rcliao/mhr-assist/internal/window"
)

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoAPIKey))
}

func TestGemini_Generate(t *testing.T) {
	var body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, DefaultGeminiModel+":generateContent"), "path %s", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Afebrile on review."}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	history := []window.Turn{{Role: window.RoleUser, Text: "earlier question"}, {Role: window.RoleModel, Text: "earlier answer"}}
	got, err := g.Generate(context.Background(), "Be concise.", history, "Any fever?", DefaultSampling)
	require.NoError(t, err)
	assert.Equal(t, "Afebrile on review.", got)

	assert.Contains(t, body, "Be concise.")
	assert.Contains(t, body, "earlier answer")
	assert.Contains(t, body, `"model"`)
	assert.Contains(t, body, "Any fever?")
}

func TestGeminiRole(t *testing.T) {
	assert.Equal(t, genai.Role(genai.RoleModel), geminiRole(window.RoleModel))
	assert.Equal(t, genai.Role(genai.RoleUser), geminiRole(window.RoleUser))
	assert.Equal(t, genai.Role(genai.RoleUser), geminiRole(""))
}

func TestGemini_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`)
	}))
	defer server.Close()

	g, err := NewGemini(context.Background(), GeminiOptions{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "", nil, "hello", DefaultSampling)
	assert.Error(t, err)
}
