package catalog

import (
	"strconv"
	"strings"
)

// ValidationError captures a single field-level problem in a catalog entry.
type ValidationError struct {
	Entry   int    // 1-based position in the overlays list
	ID      string // entry id when known
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	parts := []string{formatEntry(e.Entry, e.ID)}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// ValidationErrors aggregates catalog problems so authors can fix a file in
// one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return "catalog validation failed"
	}
	messages := make([]string, len(errs))
	for i, err := range errs {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Issues returns a copy of the underlying validation errors.
func (errs ValidationErrors) Issues() []ValidationError {
	return append([]ValidationError(nil), errs...)
}

func formatEntry(entry int, id string) string {
	if id != "" {
		return "overlay " + id + ":"
	}
	if entry <= 0 {
		return "overlay:"
	}
	return "overlay " + strconv.Itoa(entry) + ":"
}
