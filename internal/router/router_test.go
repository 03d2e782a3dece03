package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rcliao/mhr-assist/internal/backend"
	"github.com/rcliao/mhr-assist/internal/keyword"
	"github.com/rcliao/mhr-assist/internal/model"
	"github.com/rcliao/mhr-assist/internal/record"
	"github.com/rcliao/mhr-assist/internal/window"
)

// mockBackend implements backend.Generator for testing
type mockBackend struct {
	reply string
	err   error

	calls       int
	instruction string
	history     []window.Turn
	message     string
	sampling    backend.Sampling
}

func (m *mockBackend) Generate(ctx context.Context, systemInstruction string, history []window.Turn, newMessage string, cfg backend.Sampling) (string, error) {
	m.calls++
	m.instruction = systemInstruction
	m.history = history
	m.message = newMessage
	m.sampling = cfg
	return m.reply, m.err
}

func history(n int) []model.Message {
	msgs := make([]model.Message, n)
	for i := range msgs {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msgs[i] = model.Message{ID: fmt.Sprintf("id-%d", i), Role: role, Content: fmt.Sprintf("turn %d", i)}
	}
	return msgs
}

func TestRespond_RecordCategoryShortCircuits(t *testing.T) {
	mb := &mockBackend{reply: "should not be used"}
	r := New(mb)

	got := r.Respond(context.Background(), nil, "Any recent vaccinations?")

	assert.Equal(t, record.Default().Answer(model.CategoryVaccinations), got)
	assert.Zero(t, mb.calls, "backend must not be called for a recognized category")
}

func TestRespond_EveryCategoryReturnsCannedAnswer(t *testing.T) {
	queries := map[model.Category]string{
		model.CategoryVaccinations: "immunisation status",
		model.CategoryMedications:  "current prescription list",
		model.CategoryAllergies:    "known allergy?",
		model.CategoryImaging:      "latest radiology",
		model.CategoryPathology:    "HbA1c result",
		model.CategoryHistory:      "PMH please",
	}
	mb := &mockBackend{}
	r := New(mb)
	for c, q := range queries {
		assert.Equal(t, record.Default().Answer(c), r.Respond(context.Background(), history(3), q), "query %q", q)
	}
	assert.Zero(t, mb.calls)
}

func TestRespond_DelegatesUnknownQuery(t *testing.T) {
	mb := &mockBackend{reply: "I cannot check the weather."}
	r := New(mb)
	h := history(15)

	got := r.Respond(context.Background(), h, "What's the weather?")

	assert.Equal(t, "I cannot check the weather.", got)
	require.Equal(t, 1, mb.calls)
	assert.Equal(t, SystemInstruction, mb.instruction)
	assert.Equal(t, "What's the weather?", mb.message)
	assert.Equal(t, backend.DefaultSampling, mb.sampling)
	require.Len(t, mb.history, window.DefaultSize)
	assert.Equal(t, "turn 5", mb.history[0].Text)
	assert.Equal(t, "turn 14", mb.history[window.DefaultSize-1].Text)
}

func TestRespond_PassesReplyVerbatim(t *testing.T) {
	reply := "  Line one.\nLine two.  "
	r := New(&mockBackend{reply: reply})
	assert.Equal(t, reply, r.Respond(context.Background(), nil, "summarise the consult"))
}

func TestRespond_BackendFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	mb := &mockBackend{err: errors.New("dial tcp: connection refused")}
	r := New(mb, WithLogger(zap.New(core)))

	got := r.Respond(context.Background(), history(2), "hello")

	assert.Equal(t, FallbackReply, got)
	assert.NotContains(t, got, "connection refused")
	assert.Equal(t, 1, logs.FilterMessage("backend generate failed").Len())
}

func TestRespond_EmptyReply(t *testing.T) {
	for _, reply := range []string{"", "   \n"} {
		r := New(&mockBackend{reply: reply})
		assert.Equal(t, EmptyReply, r.Respond(context.Background(), nil, "hello"))
	}
}

func TestRespond_NilBackend(t *testing.T) {
	r := New(nil)
	assert.Equal(t, FallbackReply, r.Respond(context.Background(), nil, "hello"))
	assert.Equal(t, record.Default().Answer(model.CategoryAllergies), r.Respond(context.Background(), nil, "allergies?"))
}

func TestRespond_BlankInputDelegates(t *testing.T) {
	mb := &mockBackend{reply: "Could you clarify?"}
	r := New(mb)
	assert.Equal(t, "Could you clarify?", r.Respond(context.Background(), nil, "   "))
	assert.Equal(t, 1, mb.calls)
}

func TestRespond_CustomTables(t *testing.T) {
	tables, err := keyword.ParseTables([]byte("categories:\n  - category: imaging\n    triggers: [ultrasound]\n"))
	require.NoError(t, err)
	answers := `
vaccinations: v
medications: m
allergies: a
imaging: Ultrasound of the abdomen in 2023 was normal.
pathology: p
history: h
`
	records, err := record.Parse([]byte(answers))
	require.NoError(t, err)

	mb := &mockBackend{reply: "from backend"}
	r := New(mb, WithMatcher(keyword.New(tables)), WithRecords(records))

	assert.Equal(t, "Ultrasound of the abdomen in 2023 was normal.", r.Respond(context.Background(), nil, "any ultrasound?"))
	assert.Equal(t, "from backend", r.Respond(context.Background(), nil, "any allergies?"))
}

type panickingBackend struct{}

func (panickingBackend) Generate(ctx context.Context, systemInstruction string, history []window.Turn, newMessage string, cfg backend.Sampling) (string, error) {
	panic("nil map write")
}

func TestRespond_BackendPanicFallsBack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := New(panickingBackend{}, WithLogger(zap.New(core)))

	var got string
	assert.NotPanics(t, func() {
		got = r.Respond(context.Background(), history(2), "hello")
	})
	assert.Equal(t, FallbackReply, got)
	assert.Equal(t, 1, logs.FilterMessage("backend generate failed").Len())
}
