package validation_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestRequired(t *testing.T) {
	v := validation.Required("")

	blank := []any{nil, "", "   ", "\t\n", []any{}, []string{}, map[string]any{}, []int{}}
	for _, value := range blank {
		err := v.Validate(value)
		if err == nil {
			t.Fatalf("expected %#v to fail required", value)
		}
		if err.Error() != validation.DefaultRequiredMessage {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}

	present := []any{"a", "0", 0, false, 0.0, []string{"x"}, map[string]any{"k": 1}}
	for _, value := range present {
		if err := v.Validate(value); err != nil {
			t.Fatalf("expected %#v to pass required, got %v", value, err)
		}
	}
}

func TestRequired_CustomMessage(t *testing.T) {
	err := validation.Required("Name please").Validate("")
	if err == nil || err.Error() != "Name please" {
		t.Fatalf("expected custom message, got %v", err)
	}
}

func TestEmail(t *testing.T) {
	v := validation.Email("Bad email")

	if err := v.Validate("a@b.com"); err != nil {
		t.Fatalf("expected a@b.com to pass, got %v", err)
	}
	if err := v.Validate("first.last+tag@sub.example.org"); err != nil {
		t.Fatalf("expected dotted address to pass, got %v", err)
	}
	err := v.Validate("not-an-email")
	if err == nil || err.Error() != "Bad email" {
		t.Fatalf("expected configured message, got %v", err)
	}
	if err := v.Validate("a@b.c"); err == nil {
		t.Fatalf("expected single letter tld to fail")
	}
	if err := v.Validate(nil); err != nil {
		t.Fatalf("expected nil to pass vacuously, got %v", err)
	}
	if err := v.Validate(""); err != nil {
		t.Fatalf("expected empty string to pass vacuously, got %v", err)
	}
}

func TestMinLength(t *testing.T) {
	v := validation.MinLength(5, "")

	err := v.Validate("abcd")
	if err == nil {
		t.Fatalf("expected abcd to fail")
	}
	if err.Error() != "Must be at least 5 characters" {
		t.Fatalf("unexpected default message %q", err.Error())
	}
	if err := v.Validate("abcde"); err != nil {
		t.Fatalf("expected abcde to pass, got %v", err)
	}
	if err := v.Validate(""); err != nil {
		t.Fatalf("expected empty to pass, got %v", err)
	}
	if err := v.Validate(nil); err != nil {
		t.Fatalf("expected nil to pass, got %v", err)
	}
	if err := v.Validate("héllo"); err != nil {
		t.Fatalf("expected rune count to be used, got %v", err)
	}
	if err := v.Validate(12345); err != nil {
		t.Fatalf("expected stringified number to pass, got %v", err)
	}
}

func TestNilPointerCountsAsAbsent(t *testing.T) {
	var day *time.Time
	pattern, err := validation.Pattern(`^\d{4}`, "")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	for name, v := range map[string]validation.Validator{
		"minLength": validation.MinLength(3, ""),
		"email":     validation.Email(""),
		"pattern":   pattern,
	} {
		if err := v.Validate(day); err != nil {
			t.Fatalf("%s: expected nil *time.Time to pass, got %v", name, err)
		}
	}
	if got := validation.Stringify(day); got != "" {
		t.Fatalf("expected empty string for nil pointer, got %q", got)
	}
	if !validation.IsBlank(day) {
		t.Fatalf("expected nil pointer to be blank")
	}
}

func TestMaxLength(t *testing.T) {
	v := validation.MaxLength(3, "")
	if err := v.Validate("abcd"); err == nil || err.Error() != "Must be at most 3 characters" {
		t.Fatalf("expected max length failure, got %v", err)
	}
	if err := v.Validate("abc"); err != nil {
		t.Fatalf("expected abc to pass, got %v", err)
	}
}

func TestPattern(t *testing.T) {
	v, err := validation.Pattern(`\d+`, "Digits please")
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if err := v.Validate("abc123"); err != nil {
		t.Fatalf("expected partial match to pass, got %v", err)
	}
	if err := v.Validate("abc"); err == nil || err.Error() != "Digits please" {
		t.Fatalf("expected failure, got %v", err)
	}
	if err := v.Validate(""); err != nil {
		t.Fatalf("expected empty to pass, got %v", err)
	}

	anchored := validation.MustPattern(`^\d+$`, "")
	if err := anchored.Validate("abc123"); err == nil || err.Error() != "Invalid format" {
		t.Fatalf("expected anchored pattern to fail with default message, got %v", err)
	}
}

func TestPattern_InvalidExpression(t *testing.T) {
	if _, err := validation.Pattern(`(`, ""); err == nil {
		t.Fatalf("expected compile error")
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected MustPattern to panic")
		}
	}()
	validation.MustPattern(`(`, "")
}

func TestNoMarkup(t *testing.T) {
	v := validation.NoMarkup("")
	if err := v.Validate("plain text"); err != nil {
		t.Fatalf("expected plain text to pass, got %v", err)
	}
	if err := v.Validate(`<script>alert(1)</script>`); err == nil {
		t.Fatalf("expected markup to fail")
	}
}

func TestOneOf(t *testing.T) {
	v := validation.OneOf([]string{"red", "green"}, "")
	if err := v.Validate("green"); err != nil {
		t.Fatalf("expected green to pass, got %v", err)
	}
	if err := v.Validate("blue"); err == nil {
		t.Fatalf("expected blue to fail")
	}
}

func TestRun_CollectsEveryFailure(t *testing.T) {
	custom := validation.Func(func(value any) error {
		if strings.Contains(validation.Stringify(value), " ") {
			return errors.New("No spaces")
		}
		return nil
	})

	got := validation.Run("a b",
		validation.MinLength(5, ""),
		custom,
		validation.MustPattern(`^\d+$`, "Digits only"),
	)
	want := []string{"Must be at least 5 characters", "No spaces", "Digits only"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	if got := validation.Run("12345", validation.MinLength(5, ""), custom); got != nil {
		t.Fatalf("expected no messages, got %v", got)
	}
}
