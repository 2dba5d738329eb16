package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ExplanationID identifies a stored explanation
type ExplanationID ID

func (id ExplanationID) String() string { return ID(id).String() }

// NewExplanationID creates a fresh explanation identifier
func NewExplanationID() ExplanationID { return ExplanationID(NewID()) }

// ParseExplanationID parses a string into ExplanationID
func ParseExplanationID(s string) (ExplanationID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("explanation ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("explanation ID %q is not a UUID: %w", s, err)
	}
	return ExplanationID(s), nil
}
