package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formconfig"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "booking") || !strings.Contains(out, "contact") {
		t.Fatalf("expected bundled forms, got %q", out)
	}
}

func TestCheck(t *testing.T) {
	values := writeFile(t, "values.json", `{"name":"Ada","email":"nope"}`)

	out, err := run(t, "check", "contact", "--values", values)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	var report struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
		Values map[string]any      `json:"values"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if diff := cmp.Diff(map[string][]string{"email": {"Invalid email address"}}, report.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if report.Values["topic"] != "general" {
		t.Fatalf("expected initial value to be kept, got %v", report.Values["topic"])
	}

	patch := writeFile(t, "patch.json", `[{"op":"replace","path":"/email","value":"ada@example.com"}]`)
	out, err = run(t, "check", "contact", "--values", values, "--patch", patch)
	if err != nil {
		t.Fatalf("expected valid form after patch, got %v\n%s", err, out)
	}
}

func TestCheck_ServerErrors(t *testing.T) {
	values := writeFile(t, "values.json", `{"name":"Ada","email":"ada@example.com"}`)
	serverErrs := writeFile(t, "errors.json", `{"/body/email":["Already registered"],"non_field_errors":["Try later"]}`)

	out, err := run(t, "check", "contact", "--values", values, "--server-errors", serverErrs)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out, "Already registered") || !strings.Contains(out, "Try later") {
		t.Fatalf("expected server errors in report, got %s", out)
	}
}

func TestCheck_UnknownForm(t *testing.T) {
	if _, err := run(t, "check", "nope"); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected unknown form error, got %v", err)
	}
}

func TestCheck_FormsDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "f.yaml"), []byte("forms:\n  tiny:\n    fields:\n      - id: a\n        required: true\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	values := writeFile(t, "values.json", `{"a":"x"}`)
	if _, err := run(t, "--forms", dir, "check", "tiny", "--values", values); err != nil {
		t.Fatalf("check: %v", err)
	}
}

const api = `openapi: 3.0.3
info:
  title: Signup
  version: 1.0.0
paths:
  /users:
    post:
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              type: object
              required: [email]
              properties:
                email:
                  type: string
                  format: email
                plan:
                  type: string
                  enum: [free, pro]
      responses:
        '201':
          description: created
`

func TestOpenAPI(t *testing.T) {
	doc := writeFile(t, "api.yaml", api)

	out, err := run(t, "openapi", doc)
	if err != nil {
		t.Fatalf("list operations: %v", err)
	}
	if strings.TrimSpace(out) != "createUser" {
		t.Fatalf("unexpected operations: %q", out)
	}

	out, err = run(t, "openapi", doc, "createUser", "--id", "signup")
	if err != nil {
		t.Fatalf("derive form: %v", err)
	}
	store, err := formconfig.Parse([]byte(out), "derived.yaml")
	if err != nil {
		t.Fatalf("parse derived document: %v\n%s", err, out)
	}
	form, ok := store.Form("signup")
	if !ok {
		t.Fatalf("expected signup form in output:\n%s", out)
	}
	if diff := cmp.Diff([]string{"email", "plan"}, form.FieldIDs()); diff != "" {
		t.Fatalf("field ids mismatch (-want +got):\n%s", diff)
	}
	if email, _ := form.Field("email"); !email.Required {
		t.Fatalf("expected email to stay required")
	}
}

func TestList_EmptyFormsDir(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "list", "--forms", dir)
	if err == nil || !strings.Contains(err.Error(), dir) {
		t.Fatalf("expected error naming %s, got %v", dir, err)
	}
}

func TestFormsSource(t *testing.T) {
	if got := (&app{}).formsSource(); got != "the embedded forms" {
		t.Fatalf("unexpected embedded source %q", got)
	}
	if got := (&app{formsDir: "forms"}).formsSource(); got != `"forms"` {
		t.Fatalf("unexpected dir source %q", got)
	}
}
