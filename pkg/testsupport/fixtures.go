// Package testsupport holds fixture and golden file helpers shared by tests.
package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
)

// MustLoadForm parses the forms document at path and returns the form id.
func MustLoadForm(t *testing.T, path, id string) model.FormConfig {
	t.Helper()

	store, err := formconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	form, ok := store.Form(id)
	if !ok {
		t.Fatalf("form %q not found in %s (have %v)", id, path, store.IDs())
	}
	return form
}

// MustController builds a controller for cfg and disposes it when the test
// ends.
func MustController(t *testing.T, cfg model.FormConfig, options ...formstate.Option) *formstate.Controller {
	t.Helper()

	ctrl, err := formstate.New(cfg, options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(func() {
		if !ctrl.Disposed() {
			ctrl.Dispose()
		}
	})
	return ctrl
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenJSON decodes the golden file at path into target.
func MustReadGoldenJSON(t *testing.T, path string, target any) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}
