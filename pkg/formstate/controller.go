package formstate

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

var (
	// ErrDisposed is the panic value raised when a disposed controller is used.
	ErrDisposed = errors.New("formstate: controller is disposed")
	// ErrReentrantMutation is the panic value raised when a listener mutates
	// the controller while a notification is being delivered.
	ErrReentrantMutation = errors.New("formstate: controller mutated during change notification")
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequiredMessage overrides the message reported for missing required
// values.
func WithRequiredMessage(message string) Option {
	return func(c *Controller) {
		if message != "" {
			c.requiredMessage = message
		}
	}
}

// Controller holds the values and errors of one form instance. It is meant to
// be driven by a single owner: methods are synchronous, never block and are
// not safe for concurrent use.
//
// Every mutating call (SetValue, Validate, Reset, Clear, ApplyErrors,
// ApplyPatch) delivers exactly one notification to the subscribed listeners
// after the state has been updated.
type Controller struct {
	config          model.FormConfig
	values          map[string]any
	errors          map[string][]string
	validated       bool
	requiredMessage string
	logger          *zap.Logger

	listeners  []listenerEntry
	nextListen uint64
	notifying  bool
	disposed   bool
}

// New builds a controller for cfg and seeds values from the fields' initial
// values. Forms with empty or duplicate field ids are rejected.
func New(cfg model.FormConfig, options ...Option) (*Controller, error) {
	if err := cfg.Check(); err != nil {
		return nil, fmt.Errorf("formstate: invalid form config: %w", err)
	}
	c := &Controller{
		config:          cfg,
		errors:          make(map[string][]string),
		requiredMessage: validation.DefaultRequiredMessage,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.values = c.seedValues()
	return c, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew(cfg model.FormConfig, options ...Option) *Controller {
	c, err := New(cfg, options...)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the form configuration the controller was built with.
func (c *Controller) Config() model.FormConfig {
	c.ensureAlive()
	return c.config
}

// Value returns the current value stored for id.
func (c *Controller) Value(id string) (any, bool) {
	c.ensureAlive()
	v, ok := c.values[id]
	return v, ok
}

// ValueAs returns the value stored for id when it holds a T.
func ValueAs[T any](c *Controller, id string) (T, bool) {
	var zero T
	raw, ok := c.Value(id)
	if !ok {
		return zero, false
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Values returns a deep copy of every stored value, including values for ids
// that are not part of the form configuration.
func (c *Controller) Values() map[string]any {
	c.ensureAlive()
	return cloneValues(c.values)
}

// SetValue stores value for id and drops any error recorded for it. When the
// form validates on change and Validate has run at least once, only this
// field is revalidated. Ids outside the configuration are stored but never
// validated.
func (c *Controller) SetValue(id string, value any) {
	c.ensureMutable()

	c.values[id] = value
	delete(c.errors, id)

	if _, known := c.config.Field(id); !known {
		c.logger.Debug("value set for unconfigured field", zap.String("field", id))
	} else if c.config.ValidateOnChange && c.validated {
		c.validateField(id)
	}

	c.notify(Change{Kind: ChangeValue, FieldID: id})
}

// Validate runs every field's checks in declaration order and returns a
// snapshot of the outcome.
func (c *Controller) Validate() validation.Result {
	c.ensureMutable()

	c.validated = true
	c.errors = make(map[string][]string)
	for _, field := range c.config.Fields {
		c.validateField(field.ID)
	}
	result := validation.NewResult(c.errors)

	c.logger.Debug("form validated",
		zap.String("form", c.config.ID),
		zap.Bool("valid", result.Valid),
		zap.Int("invalid_fields", len(result.Errors)),
	)

	c.notify(Change{Kind: ChangeValidate})
	return result
}

// validateField recomputes the errors of a single configured field. The
// required check always comes first and every validator runs.
func (c *Controller) validateField(id string) {
	field, ok := c.config.Field(id)
	if !ok {
		return
	}
	value := c.values[id]

	var messages []string
	if field.Required && validation.IsBlank(value) {
		messages = append(messages, c.requiredMessage)
	}
	messages = append(messages, validation.Run(value, field.Validators...)...)

	if len(messages) > 0 {
		c.errors[id] = messages
		return
	}
	delete(c.errors, id)
}

// IsValid reports whether the error map is currently empty. It does not run
// validation: call Validate first. SetValue drops the error of the field it
// touches, so IsValid can turn true without a new validation pass.
func (c *Controller) IsValid() bool {
	c.ensureAlive()
	return len(c.errors) == 0
}

// HasValidated reports whether Validate has run since construction or the
// last Reset.
func (c *Controller) HasValidated() bool {
	c.ensureAlive()
	return c.validated
}

// FieldError returns the first error recorded for id.
func (c *Controller) FieldError(id string) (string, bool) {
	c.ensureAlive()
	msgs := c.errors[id]
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// FieldErrors returns a copy of every error recorded for id.
func (c *Controller) FieldErrors(id string) []string {
	c.ensureAlive()
	msgs := c.errors[id]
	if len(msgs) == 0 {
		return nil
	}
	return append([]string(nil), msgs...)
}

// HasFieldError reports whether id has at least one error.
func (c *Controller) HasFieldError(id string) bool {
	c.ensureAlive()
	return len(c.errors[id]) > 0
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() map[string][]string {
	c.ensureAlive()
	return validation.CloneErrors(c.errors)
}

// Submit validates the form and, only when it is valid, hands a snapshot of
// the values to onSuccess. It reports whether the callback ran.
func (c *Controller) Submit(onSuccess func(values map[string]any)) bool {
	result := c.Validate()
	if !result.Valid {
		c.logger.Debug("submit rejected", zap.Strings("fields", result.Fields()))
		return false
	}
	if onSuccess != nil {
		onSuccess(cloneValues(c.values))
	}
	return true
}

// Reset restores the initial values, drops every error and forgets that the
// form was validated.
func (c *Controller) Reset() {
	c.ensureMutable()

	c.errors = make(map[string][]string)
	c.validated = false
	c.values = c.seedValues()

	c.notify(Change{Kind: ChangeReset})
}

// Clear empties values and errors without reseeding initial values. The
// validated flag is left untouched.
func (c *Controller) Clear() {
	c.ensureMutable()

	c.values = make(map[string]any)
	c.errors = make(map[string][]string)

	c.notify(Change{Kind: ChangeClear})
}

// Dispose releases the controller state and detaches all listeners. Any later
// call panics with ErrDisposed. Disposing twice is a no-op.
func (c *Controller) Dispose() {
	if c.disposed {
		return
	}
	if c.notifying {
		panic(ErrReentrantMutation)
	}
	c.disposed = true
	c.values = nil
	c.errors = nil
	c.listeners = nil
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	return c.disposed
}

func (c *Controller) seedValues() map[string]any {
	values := make(map[string]any, len(c.config.Fields))
	for id, v := range c.config.InitialValues() {
		values[id] = deepCopy(v)
	}
	return values
}

func (c *Controller) ensureAlive() {
	if c.disposed {
		panic(ErrDisposed)
	}
}

func (c *Controller) ensureMutable() {
	c.ensureAlive()
	if c.notifying {
		panic(ErrReentrantMutation)
	}
}
