package validation

import "sort"

// Result captures the outcome of a full validation pass. Errors only holds
// fields with at least one message.
type Result struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

// NewResult builds a Result from an error map, copying it so later changes to
// errs do not leak into the result.
func NewResult(errs map[string][]string) Result {
	copied := CloneErrors(errs)
	return Result{
		Valid:  len(copied) == 0,
		Errors: copied,
	}
}

// FieldErrors returns a copy of the messages recorded for id.
func (r Result) FieldErrors(id string) []string {
	msgs := r.Errors[id]
	if len(msgs) == 0 {
		return nil
	}
	return append([]string(nil), msgs...)
}

// FirstError returns the first message recorded for id.
func (r Result) FirstError(id string) (string, bool) {
	msgs := r.Errors[id]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// Fields lists the ids with errors in lexical order.
func (r Result) Fields() []string {
	if len(r.Errors) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.Errors))
	for id := range r.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CloneErrors deep copies an error map, dropping empty entries. A nil or empty
// input yields an empty, non-nil map.
func CloneErrors(src map[string][]string) map[string][]string {
	out := make(map[string][]string, len(src))
	for id, msgs := range src {
		if len(msgs) == 0 {
			continue
		}
		out[id] = append([]string(nil), msgs...)
	}
	return out
}
