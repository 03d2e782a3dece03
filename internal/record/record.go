// Package record holds the simulated My Health Record for the demo patient.
package record

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/mhr-assist/internal/model"
)

//go:embed answers.yaml
var defaultAnswers []byte

// Store maps every record category to a canned answer. A Store returned by
// Parse has an entry for every category in model.Categories.
type Store struct {
	answers map[model.Category]string
}

// Parse decodes a YAML category→answer map. Every category must be present
// with a non-blank answer.
func Parse(data []byte) (*Store, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}

	s := &Store{answers: make(map[model.Category]string, len(model.Categories))}
	for k, v := range raw {
		c, err := model.ParseCategory(k)
		if err != nil {
			return nil, err
		}
		s.answers[c] = v
	}
	for _, c := range model.Categories {
		if strings.TrimSpace(s.answers[c]) == "" {
			return nil, fmt.Errorf("missing answer for category %q", c)
		}
	}
	return s, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns the store built from the embedded patient record.
func Default() *Store {
	defaultOnce.Do(func() {
		s, err := Parse(defaultAnswers)
		if err != nil {
			panic(fmt.Sprintf("record: embedded answers: %v", err))
		}
		defaultStore = s
	})
	return defaultStore
}

// Answer returns the canned answer for c. It is empty only for a category
// outside model.Categories.
func (s *Store) Answer(c model.Category) string {
	return s.answers[c]
}
