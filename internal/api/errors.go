package api

import (
	"fmt"
	"sort"
	"strings"
)

// ServerError is a non-2xx response. The message is taken from the response
// body when the backend provided one, otherwise it stays generic.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}

// FieldErrors is a field-level rejection from the backend, mapping field name
// to a human-readable message. It is recovered locally and shown inline.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return "invalid fields: " + strings.Join(parts, "; ")
}
