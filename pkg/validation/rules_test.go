package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestCatalog_BuildBuiltins(t *testing.T) {
	catalog := validation.NewCatalog()

	validators, err := catalog.BuildAll([]validation.Rule{
		{Kind: validation.RuleMinLength, Params: map[string]string{"value": "3"}},
		{Kind: validation.RulePattern, Message: "Lowercase only", Params: map[string]string{"pattern": "^[a-z]+$"}},
		{Kind: validation.RuleEmail},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(validators) != 3 {
		t.Fatalf("expected 3 validators, got %d", len(validators))
	}

	got := validation.Run("AB", validators...)
	want := []string{"Must be at least 3 characters", "Lowercase only", "Invalid email address"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_UnknownKind(t *testing.T) {
	_, err := validation.NewCatalog().Build(validation.Rule{Kind: "zipCode"})
	if !errors.Is(err, validation.ErrUnknownRule) {
		t.Fatalf("expected ErrUnknownRule, got %v", err)
	}
}

func TestCatalog_InvalidParams(t *testing.T) {
	catalog := validation.NewCatalog()
	cases := []validation.Rule{
		{Kind: validation.RuleMinLength},
		{Kind: validation.RuleMinLength, Params: map[string]string{"value": "three"}},
		{Kind: validation.RuleMaxLength, Params: map[string]string{"value": "-1"}},
		{Kind: validation.RulePattern},
		{Kind: validation.RulePattern, Params: map[string]string{"pattern": "("}},
		{Kind: validation.RuleOneOf},
	}
	for _, rule := range cases {
		if _, err := catalog.Build(rule); err == nil {
			t.Fatalf("expected error for %#v", rule)
		}
	}
}

func TestCatalog_RegisterCustomKind(t *testing.T) {
	catalog := validation.NewCatalog()
	err := catalog.Register("even", func(rule validation.Rule) (validation.Validator, error) {
		return validation.Func(func(value any) error {
			if n, ok := value.(int); ok && n%2 != 0 {
				return validation.Fail(rule.Message)
			}
			return nil
		}), nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !catalog.Has("even") {
		t.Fatalf("expected custom kind to be registered")
	}

	v, err := catalog.Build(validation.Rule{Kind: "even", Message: "Must be even"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := v.Validate(3); err == nil || err.Error() != "Must be even" {
		t.Fatalf("expected custom failure, got %v", err)
	}

	if err := catalog.Register(" ", nil); err == nil {
		t.Fatalf("expected empty kind to be rejected")
	}
}

func TestResult_Accessors(t *testing.T) {
	src := map[string][]string{
		"b": {"second"},
		"a": {"first", "again"},
		"c": nil,
	}
	result := validation.NewResult(src)
	src["a"][0] = "mutated"

	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if diff := cmp.Diff([]string{"a", "b"}, result.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if msg, ok := result.FirstError("a"); !ok || msg != "first" {
		t.Fatalf("expected copy isolated from source, got %q", msg)
	}
	if _, ok := result.FirstError("c"); ok {
		t.Fatalf("expected empty entries to be dropped")
	}

	empty := validation.NewResult(nil)
	if !empty.Valid || empty.Errors == nil {
		t.Fatalf("expected valid result with empty map, got %#v", empty)
	}
}
