package formconfig

import (
	"sort"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Store keeps the forms parsed from one or more documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	forms   map[string]model.FormConfig
	sources map[string]string
}

// Form returns the form registered under id.
func (s *Store) Form(id string) (model.FormConfig, bool) {
	if s == nil {
		return model.FormConfig{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// Source reports the document a form was read from.
func (s *Store) Source(id string) string {
	if s == nil {
		return ""
	}
	return s.sources[id]
}

// IDs lists form ids in lexical order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.forms))
	for id := range s.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// Document is the on-disk shape of a forms file.
type Document struct {
	Forms map[string]Form `json:"forms" yaml:"forms"`
}

// Form is one entry of Document.Forms.
type Form struct {
	Title            string  `json:"title,omitempty" yaml:"title,omitempty"`
	SubmitButtonText string  `json:"submitButtonText,omitempty" yaml:"submitButtonText,omitempty"`
	ValidateOnChange bool    `json:"validateOnChange,omitempty" yaml:"validateOnChange,omitempty"`
	Fields           []Field `json:"fields" yaml:"fields"`
}

// Field flattens the type-specific options of model.FieldConfig and lists
// validators as rules.
type Field struct {
	ID           string            `json:"id" yaml:"id"`
	Type         string            `json:"type,omitempty" yaml:"type,omitempty"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Required     bool              `json:"required,omitempty" yaml:"required,omitempty"`
	InitialValue any               `json:"initialValue,omitempty" yaml:"initialValue,omitempty"`
	Validators   []validation.Rule `json:"validators,omitempty" yaml:"validators,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	HelpText     string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Multiline    bool              `json:"multiline,omitempty" yaml:"multiline,omitempty"`
	Secret       bool              `json:"secret,omitempty" yaml:"secret,omitempty"`
	Options      []model.Option    `json:"options,omitempty" yaml:"options,omitempty"`
	MinDate      string            `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MaxDate      string            `json:"maxDate,omitempty" yaml:"maxDate,omitempty"`
	Layout       string            `json:"layout,omitempty" yaml:"layout,omitempty"`
	Custom       map[string]any    `json:"custom,omitempty" yaml:"custom,omitempty"`
}
