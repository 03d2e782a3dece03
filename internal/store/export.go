package store

import (
	"context"
	"time"

	"github.com/rcliao/mhr-assist/internal/model"
)

// Transcript is a point-in-time copy of a conversation.
type Transcript struct {
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
	Summary    string          `json:"summary,omitempty"`
}

// Export returns the whole conversation together with its final summary,
// the most recent assistant message.
func (s *SQLiteStore) Export(ctx context.Context) (*Transcript, error) {
	msgs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	t := &Transcript{ExportedAt: time.Now().UTC(), Messages: msgs}
	if t.Messages == nil {
		t.Messages = []model.Message{}
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == model.RoleAssistant {
			t.Summary = msgs[i].Content
			break
		}
	}
	return t, nil
}
