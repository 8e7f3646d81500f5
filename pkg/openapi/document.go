package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrOperationNotFound is returned when an operation id is not present in the
// document.
var ErrOperationNotFound = errors.New("openapi: operation not found")

// Document is a parsed and validated OpenAPI description.
type Document struct {
	spec       *openapi3.T
	operations map[string]operationRef
}

type operationRef struct {
	method string
	path   string
	op     *openapi3.Operation
}

// Load parses raw (JSON or YAML), resolves local references and validates the
// result. Operations without an operationId are addressed as "method:path",
// e.g. "post:/contacts".
func Load(ctx context.Context, raw []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	if !looksLikeOpenAPI(raw) {
		return nil, errors.New("openapi: payload is not an OpenAPI document")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	doc := &Document{spec: spec, operations: make(map[string]operationRef)}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			doc.operations[id] = operationRef{method: method, path: path, op: op}
		}
	}
	return doc, nil
}

// LoadFile reads and parses a document from disk.
func LoadFile(ctx context.Context, path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read %s: %w", path, err)
	}
	return Load(ctx, raw)
}

// Title returns info.title.
func (d *Document) Title() string {
	if d == nil || d.spec == nil || d.spec.Info == nil {
		return ""
	}
	return d.spec.Info.Title
}

// OperationIDs lists every addressable operation in lexical order.
func (d *Document) OperationIDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.operations))
	for id := range d.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Document) operation(id string) (operationRef, error) {
	if d != nil {
		if ref, ok := d.operations[id]; ok {
			return ref, nil
		}
	}
	return operationRef{}, fmt.Errorf("%w: %q", ErrOperationNotFound, id)
}

func looksLikeOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, ok := payload["openapi"]
			return ok
		}
	}
	return strings.Contains(strings.ToLower(string(trimmed)), "openapi:")
}
