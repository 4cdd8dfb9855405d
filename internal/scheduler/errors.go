package scheduler

import (
	"fmt"
	"strings"
)

// IntegrityIssue describes one malformed or dangling reference in the raw data.
type IntegrityIssue struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entityId"`
	Name     string `json:"name,omitempty"`
	Reason   string `json:"reason"`
}

func (i IntegrityIssue) String() string {
	if i.Name != "" {
		return fmt.Sprintf("%s %s (%s): %s", i.Entity, i.EntityID, i.Name, i.Reason)
	}
	return fmt.Sprintf("%s %s: %s", i.Entity, i.EntityID, i.Reason)
}

// DataIntegrityError is returned by Assemble when the raw data cannot be scheduled at all.
type DataIntegrityError struct {
	Issues []IntegrityIssue `json:"issues"`
}

// Error implements the error interface.
func (e *DataIntegrityError) Error() string {
	if e == nil {
		return "<nil>"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("data integrity check failed (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// EngineFailureError wraps an unexpected failure recovered from inside an attempt.
type EngineFailureError struct {
	Attempt int
	Cause   interface{}
}

// Error implements the error interface.
func (e *EngineFailureError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("attempt %d failed unexpectedly: %v", e.Attempt, e.Cause)
}
