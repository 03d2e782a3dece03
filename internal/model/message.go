// Package model defines the core conversation and record data types.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ValidRoles are the allowed message roles.
var ValidRoles = map[Role]bool{
	RoleUser:      true,
	RoleAssistant: true,
}

// Message is one immutable entry of a conversation log.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Category is a bucket of the simulated health record.
type Category string

const (
	CategoryVaccinations Category = "vaccinations"
	CategoryMedications  Category = "medications"
	CategoryAllergies    Category = "allergies"
	CategoryImaging      Category = "imaging"
	CategoryPathology    Category = "pathology"
	CategoryHistory      Category = "history"
)

// Categories lists every record category in definition order.
var Categories = []Category{
	CategoryVaccinations,
	CategoryMedications,
	CategoryAllergies,
	CategoryImaging,
	CategoryPathology,
	CategoryHistory,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown record category %q", s)
}
