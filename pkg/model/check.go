package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyFieldID reports a field without an id.
	ErrEmptyFieldID = errors.New("model: field id is required")
	// ErrDuplicateFieldID reports two fields sharing an id within one form.
	ErrDuplicateFieldID = errors.New("model: duplicate field id")
	// ErrEmptyFieldType reports a field without a type tag.
	ErrEmptyFieldType = errors.New("model: field type is required")
)

// Check reports configuration errors that would make id based lookups
// ambiguous. All problems are joined into a single error.
func (f FormConfig) Check() error {
	var errs []error
	seen := make(map[string]int, len(f.Fields))
	for idx, field := range f.Fields {
		id := field.ID
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("%w: fields[%d]", ErrEmptyFieldID, idx))
			continue
		}
		if field.Type == "" {
			errs = append(errs, fmt.Errorf("%w: field %q", ErrEmptyFieldType, id))
		}
		if first, dup := seen[id]; dup {
			errs = append(errs, fmt.Errorf("%w: %q at fields[%d] and fields[%d]", ErrDuplicateFieldID, id, first, idx))
			continue
		}
		seen[id] = idx
	}
	return errors.Join(errs...)
}
