package widgets

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
)

// ErrUnregisteredFieldType is returned when no builder exists for a field's
// type. It signals a configuration mistake and is not meant to be recovered.
var ErrUnregisteredFieldType = errors.New("widgets: no builder registered for field type")

// Builder constructs the renderer-side handle W for a field bound to a
// controller.
type Builder[W any] func(field model.FieldConfig, ctrl *formstate.Controller) (W, error)

// Registry resolves field types to builders. Custom registrations take
// precedence over the built-in builders supplied at construction, so
// registering a built-in tag overrides it. Registries are plain values owned
// by the caller; there is no package level instance. Safe for concurrent use.
type Registry[W any] struct {
	mu       sync.RWMutex
	builtins map[model.FieldType]Builder[W]
	custom   map[model.FieldType]Builder[W]
}

// NewRegistry creates a registry whose fallback builders are builtins. The map
// is copied; nil builders are ignored.
func NewRegistry[W any](builtins map[model.FieldType]Builder[W]) *Registry[W] {
	r := &Registry[W]{
		builtins: make(map[model.FieldType]Builder[W], len(builtins)),
		custom:   make(map[model.FieldType]Builder[W]),
	}
	for ft, builder := range builtins {
		if builder == nil {
			continue
		}
		r.builtins[ft] = builder
	}
	return r
}

// Register installs builder for fieldType, replacing any earlier custom
// registration.
func (r *Registry[W]) Register(fieldType model.FieldType, builder Builder[W]) error {
	if fieldType == "" {
		return errors.New("widgets: field type is required")
	}
	if builder == nil {
		return fmt.Errorf("widgets: builder for %q is nil", fieldType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom[fieldType] = builder
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry[W]) MustRegister(fieldType model.FieldType, builder Builder[W]) {
	if err := r.Register(fieldType, builder); err != nil {
		panic(err)
	}
}

// IsRegistered reports whether a custom builder exists for fieldType.
// Built-in builders are not considered.
func (r *Registry[W]) IsRegistered(fieldType model.FieldType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.custom[fieldType]
	return ok
}

// Has reports whether Build can resolve fieldType.
func (r *Registry[W]) Has(fieldType model.FieldType) bool {
	_, ok := r.lookup(fieldType)
	return ok
}

// Clear removes every custom registration. Built-in builders stay.
func (r *Registry[W]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custom = make(map[model.FieldType]Builder[W])
}

// Types lists every resolvable field type in lexical order.
func (r *Registry[W]) Types() []model.FieldType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[model.FieldType]struct{}, len(r.builtins)+len(r.custom))
	for ft := range r.builtins {
		seen[ft] = struct{}{}
	}
	for ft := range r.custom {
		seen[ft] = struct{}{}
	}
	out := make([]model.FieldType, 0, len(seen))
	for ft := range seen {
		out = append(out, ft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Build resolves the builder for field.Type and invokes it. Unknown types
// yield an error wrapping ErrUnregisteredFieldType.
func (r *Registry[W]) Build(field model.FieldConfig, ctrl *formstate.Controller) (W, error) {
	var zero W
	builder, ok := r.lookup(field.Type)
	if !ok {
		return zero, fmt.Errorf("%w: %q (field %q)", ErrUnregisteredFieldType, field.Type, field.ID)
	}
	w, err := builder(field, ctrl)
	if err != nil {
		return zero, fmt.Errorf("widgets: build field %q: %w", field.ID, err)
	}
	return w, nil
}

// MustBuild panics when Build fails.
func (r *Registry[W]) MustBuild(field model.FieldConfig, ctrl *formstate.Controller) W {
	w, err := r.Build(field, ctrl)
	if err != nil {
		panic(err)
	}
	return w
}

// BuildAll builds every field of the controller's form in declaration order.
func (r *Registry[W]) BuildAll(ctrl *formstate.Controller) ([]W, error) {
	fields := ctrl.Config().Fields
	out := make([]W, 0, len(fields))
	for _, field := range fields {
		w, err := r.Build(field, ctrl)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *Registry[W]) lookup(fieldType model.FieldType) (Builder[W], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if builder, ok := r.custom[fieldType]; ok {
		return builder, true
	}
	builder, ok := r.builtins[fieldType]
	return builder, ok
}
