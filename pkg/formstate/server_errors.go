package formstate

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ApplyErrors attaches externally produced errors (for example a backend's
// validation response) to configured fields. Keys may be plain ids or paths
// such as "/body/name", "$.data.name" or "name[0]"; the longest prefix that
// names a configured field wins. Messages are trimmed and deduplicated and
// appended to any existing errors. Keys that do not resolve to a field, plus
// form level keys like "" or "non_field_errors", are returned as form level
// messages.
func (c *Controller) ApplyErrors(payload map[string][]string) []string {
	c.ensureMutable()

	fieldIDs := make(map[string]struct{}, len(c.config.Fields))
	for _, field := range c.config.Fields {
		fieldIDs[field.ID] = struct{}{}
	}

	var (
		formLevel []string
		touched   []string
	)
	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		id, ok := resolveErrorPath(rawPath, fieldIDs)
		if !ok {
			formLevel = append(formLevel, normalized...)
			continue
		}
		c.errors[id] = normalizeMessages(append(c.errors[id], normalized...))
		touched = append(touched, id)
	}

	touched = normalizeMessages(touched)
	sort.Strings(touched)
	formLevel = normalizeMessages(formLevel)
	c.logger.Debug("server errors applied",
		zap.Strings("fields", touched),
		zap.Int("form_errors", len(formLevel)),
	)
	c.notify(Change{Kind: ChangeErrors, Fields: touched})
	return formLevel
}

func resolveErrorPath(raw string, fieldIDs map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", false
	}
	if _, ok := fieldIDs[trimmed]; ok {
		return trimmed, true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range segmentVariants(segments) {
		if id := longestMatchingID(variant, fieldIDs); len(id) > len(best) {
			best = id
		}
	}
	return best, best != ""
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = clean[1:]
	}
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func segmentVariants(segments []string) [][]string {
	noWrappers := dropWrapperSegments(segments)
	return [][]string{
		segments,
		noWrappers,
		stripNumericSegments(segments),
		stripNumericSegments(noWrappers),
	}
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
	"values":     {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

// longestMatchingID joins ever shorter prefixes of segments with "." until one
// names a field, so "address.city" ids resolve before "address".
func longestMatchingID(segments []string, fieldIDs map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldIDs[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
