package model

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// FieldType identifies a field's kind. Built-in kinds are the FieldType*
// constants; any other name is a custom kind resolved through a widget
// registry. Two field types are equal when their names match.
type FieldType string

const (
	FieldTypeText  FieldType = "text"
	FieldTypeRadio FieldType = "radio"
	FieldTypeDate  FieldType = "date"
)

// CustomFieldType returns the tag for an application-defined field kind.
func CustomFieldType(name string) FieldType {
	return FieldType(name)
}

// BuiltinFieldTypes lists the kinds every registry is expected to support.
func BuiltinFieldTypes() []FieldType {
	return []FieldType{FieldTypeText, FieldTypeRadio, FieldTypeDate}
}

// IsBuiltin reports whether t is one of the built-in kinds.
func (t FieldType) IsBuiltin() bool {
	switch t {
	case FieldTypeText, FieldTypeRadio, FieldTypeDate:
		return true
	default:
		return false
	}
}

func (t FieldType) String() string {
	return string(t)
}

// FieldConfig describes one field of a form. The variant payloads (Text,
// Radio, Date, Custom) are consumed by renderers only; the controller looks at
// ID, Required, InitialValue and Validators.
type FieldConfig struct {
	ID           string                 `json:"id" yaml:"id"`
	Type         FieldType              `json:"type" yaml:"type"`
	Label        string                 `json:"label,omitempty" yaml:"label,omitempty"`
	Required     bool                   `json:"required,omitempty" yaml:"required,omitempty"`
	InitialValue any                    `json:"initialValue,omitempty" yaml:"initialValue,omitempty"`
	Validators   []validation.Validator `json:"-" yaml:"-"`

	Text   TextOptions    `json:"text,omitempty" yaml:"text,omitempty"`
	Radio  RadioOptions   `json:"radio,omitempty" yaml:"radio,omitempty"`
	Date   DateOptions    `json:"date,omitempty" yaml:"date,omitempty"`
	Custom map[string]any `json:"custom,omitempty" yaml:"custom,omitempty"`
}

// TextOptions carries renderer hints for text fields.
type TextOptions struct {
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText    string `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Multiline   bool   `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Secret      bool   `json:"secret,omitempty" yaml:"secret,omitempty"`
}

// Option is a single choice of a radio field.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel falls back to the value when no label is set.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// RadioOptions lists the choices of a radio field in display order.
type RadioOptions struct {
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// DateOptions bounds the dates a renderer offers. Layout defaults to
// time.DateOnly.
type DateOptions struct {
	Min    *time.Time `json:"min,omitempty" yaml:"min,omitempty"`
	Max    *time.Time `json:"max,omitempty" yaml:"max,omitempty"`
	Layout string     `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// LayoutOrDefault returns the configured layout or time.DateOnly.
func (d DateOptions) LayoutOrDefault() string {
	if d.Layout != "" {
		return d.Layout
	}
	return time.DateOnly
}

// FormConfig is an ordered set of fields plus form level settings. Field order
// is both display and validation order.
type FormConfig struct {
	ID               string        `json:"id,omitempty" yaml:"id,omitempty"`
	Title            string        `json:"title,omitempty" yaml:"title,omitempty"`
	Fields           []FieldConfig `json:"fields" yaml:"fields"`
	SubmitButtonText string        `json:"submitButtonText,omitempty" yaml:"submitButtonText,omitempty"`
	ValidateOnChange bool          `json:"validateOnChange,omitempty" yaml:"validateOnChange,omitempty"`
}

// Field returns the first field with the given id.
func (f FormConfig) Field(id string) (FieldConfig, bool) {
	for _, field := range f.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// FieldIDs lists field ids in declaration order.
func (f FormConfig) FieldIDs() []string {
	ids := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		ids = append(ids, field.ID)
	}
	return ids
}

// InitialValues collects the non-nil initial values keyed by field id.
func (f FormConfig) InitialValues() map[string]any {
	out := make(map[string]any, len(f.Fields))
	for _, field := range f.Fields {
		if field.InitialValue == nil {
			continue
		}
		if _, seen := out[field.ID]; seen {
			continue
		}
		out[field.ID] = field.InitialValue
	}
	return out
}
