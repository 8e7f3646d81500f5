package validation

import (
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultRequiredMessage is the message reported by the controller's built-in
// required check and by Required when no message is supplied.
const DefaultRequiredMessage = "This field is required"

// EmailPattern is the expression used by Email.
const EmailPattern = `^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`

var emailRe = regexp.MustCompile(EmailPattern)

// Validator checks a single field value. A nil error means the value passed;
// otherwise Error() is the user-facing message.
type Validator interface {
	Validate(value any) error
}

// Func adapts a plain function into a Validator.
type Func func(value any) error

// Validate calls the underlying function.
func (fn Func) Validate(value any) error {
	return fn(value)
}

// Error is the failure returned by the built-in validators.
type Error struct {
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// Fail returns an Error carrying message. Custom validators can use it to
// report failures the same way the built-ins do.
func Fail(message string) error {
	return Error{Message: message}
}

// Required fails on nil, blank strings and empty collections. Zero numbers and
// false are considered present.
func Required(message string) Validator {
	if message == "" {
		message = DefaultRequiredMessage
	}
	return Func(func(value any) error {
		if IsBlank(value) {
			return Fail(message)
		}
		return nil
	})
}

// Email checks the value against EmailPattern. Empty values pass; pair it with
// Required when the field is mandatory.
func Email(message string) Validator {
	if message == "" {
		message = "Invalid email address"
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if !emailRe.MatchString(s) {
			return Fail(message)
		}
		return nil
	})
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int, message string) Validator {
	if message == "" {
		message = fmt.Sprintf("Must be at least %d characters", n)
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) < n {
			return Fail(message)
		}
		return nil
	})
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, message string) Validator {
	if message == "" {
		message = fmt.Sprintf("Must be at most %d characters", n)
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if utf8.RuneCountInString(s) > n {
			return Fail(message)
		}
		return nil
	})
}

// Pattern fails when the value contains no match for expr. The expression is
// not anchored implicitly.
func Pattern(expr, message string) (Validator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("validation: invalid pattern %q: %w", expr, err)
	}
	return PatternRegexp(re, message), nil
}

// MustPattern is like Pattern but panics on an invalid expression.
func MustPattern(expr, message string) Validator {
	v, err := Pattern(expr, message)
	if err != nil {
		panic(err)
	}
	return v
}

// PatternRegexp builds a pattern validator from a compiled expression.
func PatternRegexp(re *regexp.Regexp, message string) Validator {
	if message == "" {
		message = "Invalid format"
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return Fail(message)
		}
		return nil
	})
}

// OneOf fails when the string form of the value is not one of allowed.
func OneOf(allowed []string, message string) Validator {
	if message == "" {
		message = "Select one of the available options"
	}
	set := make(map[string]struct{}, len(allowed))
	for _, entry := range allowed {
		set[entry] = struct{}{}
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if _, ok := set[s]; !ok {
			return Fail(message)
		}
		return nil
	})
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

// NoMarkup fails when the value contains HTML that a strict sanitizer would
// strip. Entities escaped by the sanitizer are compared unescaped, so plain
// text with quotes or ampersands passes.
func NoMarkup(message string) Validator {
	if message == "" {
		message = "Must not contain markup"
	}
	return Func(func(value any) error {
		s := Stringify(value)
		if s == "" {
			return nil
		}
		if html.UnescapeString(strictPolicy().Sanitize(s)) != s {
			return Fail(message)
		}
		return nil
	})
}

func strictPolicy() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}

// Run evaluates every validator against value and collects all messages in
// order. It does not stop at the first failure.
func Run(value any, validators ...Validator) []string {
	var messages []string
	for _, v := range validators {
		if v == nil {
			continue
		}
		if err := v.Validate(value); err != nil {
			messages = append(messages, err.Error())
		}
	}
	return messages
}

// IsBlank reports whether value counts as absent for required checks: nil, a
// string that is empty after trimming, or an empty slice, array or map.
func IsBlank(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// Stringify converts a value to the string form validators inspect. Nil and
// typed-nil pointers become "".
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if rv := reflect.ValueOf(value); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
