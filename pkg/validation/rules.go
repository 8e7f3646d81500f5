package validation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Canonical rule kinds understood by the default catalog.
const (
	RuleRequired  = "required"
	RuleEmail     = "email"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RulePattern   = "pattern"
	RuleNoMarkup  = "noMarkup"
	RuleOneOf     = "oneOf"
)

// ErrUnknownRule is returned when a rule kind has no registered factory.
var ErrUnknownRule = errors.New("validation: unknown rule kind")

// Rule is the declarative form of a validator as it appears in form documents.
// Length rules carry their threshold in Params["value"], pattern rules their
// expression in Params["pattern"] and oneOf rules a comma separated list in
// Params["values"].
type Rule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

// Factory turns a Rule into a Validator.
type Factory func(rule Rule) (Validator, error)

// Catalog maps rule kinds to factories. The zero value is not usable; call
// NewCatalog.
type Catalog struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalog returns a catalog with the built-in rule kinds registered.
func NewCatalog() *Catalog {
	c := &Catalog{factories: make(map[string]Factory)}
	c.registerBuiltins()
	return c
}

// Register adds or replaces the factory for kind.
func (c *Catalog) Register(kind string, factory Factory) error {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return errors.New("validation: rule kind is required")
	}
	if factory == nil {
		return fmt.Errorf("validation: factory for %q is nil", trimmed)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[trimmed] = factory
	return nil
}

// Has reports whether kind can be built.
func (c *Catalog) Has(kind string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[strings.TrimSpace(kind)]
	return ok
}

// Kinds lists registered kinds in lexical order.
func (c *Catalog) Kinds() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.factories))
	for kind := range c.factories {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Build resolves a single rule.
func (c *Catalog) Build(rule Rule) (Validator, error) {
	kind := strings.TrimSpace(rule.Kind)
	c.mu.RLock()
	factory, ok := c.factories[kind]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, kind)
	}
	v, err := factory(rule)
	if err != nil {
		return nil, fmt.Errorf("validation: rule %q: %w", kind, err)
	}
	return v, nil
}

// BuildAll resolves rules in order, stopping at the first failure.
func (c *Catalog) BuildAll(rules []Rule) ([]Validator, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	out := make([]Validator, 0, len(rules))
	for idx, rule := range rules {
		v, err := c.Build(rule)
		if err != nil {
			return nil, fmt.Errorf("validation: rules[%d]: %w", idx, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Catalog) registerBuiltins() {
	c.factories[RuleRequired] = func(rule Rule) (Validator, error) {
		return Required(rule.Message), nil
	}
	c.factories[RuleEmail] = func(rule Rule) (Validator, error) {
		return Email(rule.Message), nil
	}
	c.factories[RuleMinLength] = func(rule Rule) (Validator, error) {
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MinLength(n, rule.Message), nil
	}
	c.factories[RuleMaxLength] = func(rule Rule) (Validator, error) {
		n, err := intParam(rule, "value")
		if err != nil {
			return nil, err
		}
		return MaxLength(n, rule.Message), nil
	}
	c.factories[RulePattern] = func(rule Rule) (Validator, error) {
		expr, ok := rule.Params["pattern"]
		if !ok || expr == "" {
			return nil, errors.New(`param "pattern" is required`)
		}
		return Pattern(expr, rule.Message)
	}
	c.factories[RuleNoMarkup] = func(rule Rule) (Validator, error) {
		return NoMarkup(rule.Message), nil
	}
	c.factories[RuleOneOf] = func(rule Rule) (Validator, error) {
		raw := strings.TrimSpace(rule.Params["values"])
		if raw == "" {
			return nil, errors.New(`param "values" is required`)
		}
		parts := strings.Split(raw, ",")
		allowed := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				allowed = append(allowed, trimmed)
			}
		}
		return OneOf(allowed, rule.Message), nil
	}
}

func intParam(rule Rule, key string) (int, error) {
	raw, ok := rule.Params[key]
	if !ok {
		return 0, fmt.Errorf("param %q is required", key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("param %q: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("param %q must not be negative", key)
	}
	return n, nil
}
