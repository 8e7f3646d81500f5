package formstate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"go.uber.org/zap"
)

// ApplyPatch applies an RFC 6902 JSON patch to the value map. Paths address
// field ids at the top level ("/name", "/tags/0"). Fields touched by the patch
// lose their errors and follow the same revalidation rule as SetValue;
// untouched values keep their Go types. A failed patch leaves the controller
// unchanged and sends no notification.
func (c *Controller) ApplyPatch(patch []byte) error {
	c.ensureMutable()

	decoded, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("formstate: decode patch: %w", err)
	}
	if len(decoded) == 0 {
		return nil
	}

	current, err := json.Marshal(c.values)
	if err != nil {
		return fmt.Errorf("formstate: marshal values: %w", err)
	}
	modified, err := decoded.Apply(current)
	if err != nil {
		return fmt.Errorf("formstate: apply patch: %w", err)
	}
	var next map[string]any
	if err := json.Unmarshal(modified, &next); err != nil {
		return fmt.Errorf("formstate: patch result is not an object: %w", err)
	}

	touched, err := touchedFields(decoded, c.values, next)
	if err != nil {
		return fmt.Errorf("formstate: inspect patch: %w", err)
	}

	for _, id := range touched {
		if v, ok := next[id]; ok {
			c.values[id] = v
		} else {
			delete(c.values, id)
		}
		delete(c.errors, id)
	}
	if c.config.ValidateOnChange && c.validated {
		for _, id := range touched {
			c.validateField(id)
		}
	}

	c.logger.Debug("patch applied", zap.Strings("fields", touched))
	c.notify(Change{Kind: ChangePatch, Fields: touched})
	return nil
}

// touchedFields lists the top level keys referenced by the patch operations in
// lexical order. A whole-document path touches every key on either side.
func touchedFields(patch jsonpatch.Patch, before, after map[string]any) ([]string, error) {
	set := make(map[string]struct{})
	all := false

	addPointer := func(pointer string) {
		key, whole := topLevelKey(pointer)
		if whole {
			all = true
			return
		}
		set[key] = struct{}{}
	}

	for _, op := range patch {
		path, err := op.Path()
		if err != nil {
			return nil, err
		}
		addPointer(path)
		switch op.Kind() {
		case "move", "copy":
			from, err := op.From()
			if err != nil {
				return nil, err
			}
			if op.Kind() == "move" {
				addPointer(from)
			}
		}
	}

	if all {
		for k := range before {
			set[k] = struct{}{}
		}
		for k := range after {
			set[k] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func topLevelKey(pointer string) (string, bool) {
	if pointer == "" {
		return "", true
	}
	trimmed := strings.TrimPrefix(pointer, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	trimmed = strings.ReplaceAll(trimmed, "~1", "/")
	trimmed = strings.ReplaceAll(trimmed, "~0", "~")
	return trimmed, false
}
