// Package window builds the bounded conversation context sent to a backend.
package window

import "github.com/rcliao/mhr-assist/internal/model"

// DefaultSize is the number of prior messages sent for context.
const DefaultSize = 10

// Backend role names.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one role/text pair in the backend's vocabulary.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Build returns the last k messages of history in chronological order,
// with assistant messages renamed to the backend's "model" role. A k <= 0
// uses DefaultSize.
func Build(history []model.Message, k int) []Turn {
	if k <= 0 {
		k = DefaultSize
	}
	start := 0
	if len(history) > k {
		start = len(history) - k
	}

	turns := make([]Turn, 0, len(history)-start)
	for _, m := range history[start:] {
		turns = append(turns, Turn{Role: backendRole(m.Role), Text: m.Content})
	}
	return turns
}

func backendRole(r model.Role) string {
	if r == model.RoleUser {
		return RoleUser
	}
	return RoleModel
}
