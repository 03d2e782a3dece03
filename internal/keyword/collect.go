package keyword

import "github.com/rcliao/mhr-assist/internal/model"

// PanelLimit is the number of tags shown in the keyword panel.
const PanelLimit = 20

// Collect aggregates tags for the keyword panel: tags from user messages in
// conversation order, then tags from the transcript, deduplicated and capped
// at limit. A limit <= 0 means no cap.
func (m *Matcher) Collect(messages []model.Message, transcript string, limit int) []string {
	var tags []string
	seen := make(map[string]bool)
	add := func(found []string) bool {
		for _, tag := range found {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			tags = append(tags, tag)
			if limit > 0 && len(tags) >= limit {
				return false
			}
		}
		return true
	}

	for _, msg := range messages {
		if msg.Role != model.RoleUser {
			continue
		}
		if !add(m.Match(msg.Content)) {
			return tags
		}
	}
	add(m.Match(transcript))
	return tags
}
