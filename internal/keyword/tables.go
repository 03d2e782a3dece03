package keyword

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/mhr-assist/internal/model"
)

//go:embed tables.yaml
var defaultTables []byte

// Tables is the static configuration a Matcher is built from.
type Tables struct {
	Categories []CategoryTriggers `yaml:"categories"`
	Vocabulary []string           `yaml:"vocabulary"`
}

// CategoryTriggers pairs a record category with its trigger substrings.
type CategoryTriggers struct {
	Category string   `yaml:"category"`
	Triggers []string `yaml:"triggers"`
}

// ParseTables decodes and validates a YAML trigger table.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tables: %w", err)
	}

	seen := make(map[model.Category]bool)
	for _, ct := range t.Categories {
		c, err := model.ParseCategory(ct.Category)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("category %q listed twice", c)
		}
		seen[c] = true
		for _, trig := range ct.Triggers {
			if strings.TrimSpace(trig) == "" {
				return nil, fmt.Errorf("category %q has a blank trigger", c)
			}
		}
	}
	return &t, nil
}

var (
	defaultOnce    sync.Once
	defaultMatcher *Matcher
)

// Default returns the Matcher built from the embedded tables.
func Default() *Matcher {
	defaultOnce.Do(func() {
		t, err := ParseTables(defaultTables)
		if err != nil {
			panic(fmt.Sprintf("keyword: embedded tables: %v", err))
		}
		defaultMatcher = New(t)
	})
	return defaultMatcher
}
