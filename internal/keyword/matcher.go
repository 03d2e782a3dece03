// Package keyword maps free text to clinical display tags and record categories.
package keyword

import (
	"strings"

	"github.com/rcliao/mhr-assist/internal/model"
)

// rule is one step of category detection. Rules are evaluated in order and
// the first one whose predicate holds decides the category.
type rule struct {
	category model.Category
	matches  func(lower string) bool
}

// Matcher tags text against a fixed vocabulary and detects record categories.
// It is immutable after construction.
type Matcher struct {
	rules      []rule
	vocabulary []string
}

// New builds a Matcher from parsed tables.
func New(t *Tables) *Matcher {
	m := &Matcher{}
	for _, ct := range t.Categories {
		triggers := make([]string, 0, len(ct.Triggers))
		for _, trig := range ct.Triggers {
			triggers = append(triggers, strings.ToLower(trig))
		}
		m.rules = append(m.rules, rule{
			category: model.Category(strings.ToLower(strings.TrimSpace(ct.Category))),
			matches:  containsAny(triggers),
		})
	}

	seen := make(map[string]bool)
	for _, v := range t.Vocabulary {
		lv := strings.ToLower(strings.TrimSpace(v))
		if lv == "" || seen[lv] {
			continue
		}
		seen[lv] = true
		m.vocabulary = append(m.vocabulary, v)
	}
	return m
}

func containsAny(triggers []string) func(string) bool {
	return func(lower string) bool {
		for _, t := range triggers {
			if strings.Contains(lower, t) {
				return true
			}
		}
		return false
	}
}

// Match returns the vocabulary tags contained in text, in vocabulary order.
func (m *Matcher) Match(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var tags []string
	for _, v := range m.vocabulary {
		if strings.Contains(lower, strings.ToLower(v)) {
			tags = append(tags, v)
		}
	}
	return tags
}

// DetectCategory returns the first category, in table order, with a trigger
// contained in text.
func (m *Matcher) DetectCategory(text string) (model.Category, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, r := range m.rules {
		if r.matches(lower) {
			return r.category, true
		}
	}
	return "", false
}
