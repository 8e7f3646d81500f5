package formconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Option customises document loading.
type Option func(*loader)

type loader struct {
	catalog *validation.Catalog
}

// WithCatalog resolves validator rules through catalog instead of a fresh
// validation.NewCatalog(). Use it to make custom rule kinds available.
func WithCatalog(catalog *validation.Catalog) Option {
	return func(l *loader) {
		if catalog != nil {
			l.catalog = catalog
		}
	}
}

func newLoader(options []Option) *loader {
	l := &loader{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if l.catalog == nil {
		l.catalog = validation.NewCatalog()
	}
	return l
}

// LoadFS walks fsys and parses every JSON/YAML document into a single store.
// Form ids must be unique across documents. A nil fsys yields an empty store.
func LoadFS(fsys fs.FS, options ...Option) (*Store, error) {
	l := newLoader(options)
	store := newStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isConfigFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formconfig: read %s: %w", path, err)
		}
		return l.parseInto(store, data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single document from disk.
func LoadFile(path string, options ...Option) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formconfig: read %s: %w", path, err)
	}
	return Parse(data, path, options...)
}

// Parse reads one document. source is only used in error messages.
func Parse(data []byte, source string, options ...Option) (*Store, error) {
	l := newLoader(options)
	store := newStore()
	if err := l.parseInto(store, data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func newStore() *Store {
	return &Store{
		forms:   make(map[string]model.FormConfig),
		sources: make(map[string]string),
	}
}

func (l *loader) parseInto(store *Store, data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for rawID, raw := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("formconfig: file %s defines an empty form id", source)
		}
		if _, exists := store.forms[id]; exists {
			return fmt.Errorf("formconfig: duplicate form %q (file %s, first defined in %s)", id, source, store.sources[id])
		}
		form, err := l.normaliseForm(id, raw)
		if err != nil {
			return fmt.Errorf("formconfig: form %q (file %s): %w", id, source, err)
		}
		store.forms[id] = form
		store.sources[id] = source
	}
	return nil
}

func parseDocument(data []byte, source string) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("formconfig: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return Document{}, fmt.Errorf("formconfig: parse %s: invalid JSON or YAML", source)
}

// Build converts a single form definition into a model.FormConfig, resolving
// rules and checking field ids the same way Parse does.
func Build(id string, form Form, options ...Option) (model.FormConfig, error) {
	cfg, err := newLoader(options).normaliseForm(id, form)
	if err != nil {
		return model.FormConfig{}, fmt.Errorf("formconfig: form %q: %w", id, err)
	}
	return cfg, nil
}

func (l *loader) normaliseForm(id string, raw Form) (model.FormConfig, error) {
	form := model.FormConfig{
		ID:               id,
		Title:            raw.Title,
		SubmitButtonText: raw.SubmitButtonText,
		ValidateOnChange: raw.ValidateOnChange,
		Fields:           make([]model.FieldConfig, 0, len(raw.Fields)),
	}
	for idx, rawField := range raw.Fields {
		field, err := l.normaliseField(rawField)
		if err != nil {
			return model.FormConfig{}, fmt.Errorf("fields[%d] %q: %w", idx, rawField.ID, err)
		}
		form.Fields = append(form.Fields, field)
	}
	if err := form.Check(); err != nil {
		return model.FormConfig{}, err
	}
	return form, nil
}

func (l *loader) normaliseField(raw Field) (model.FieldConfig, error) {
	fieldType := model.FieldType(strings.TrimSpace(raw.Type))
	if fieldType == "" {
		fieldType = model.FieldTypeText
	}

	validators, err := l.catalog.BuildAll(raw.Validators)
	if err != nil {
		return model.FieldConfig{}, err
	}

	field := model.FieldConfig{
		ID:           strings.TrimSpace(raw.ID),
		Type:         fieldType,
		Label:        raw.Label,
		Required:     raw.Required,
		InitialValue: raw.InitialValue,
		Validators:   validators,
		Custom:       cloneAnyMap(raw.Custom),
	}

	switch fieldType {
	case model.FieldTypeText:
		field.Text = model.TextOptions{
			Placeholder: raw.Placeholder,
			HelpText:    raw.HelpText,
			Multiline:   raw.Multiline,
			Secret:      raw.Secret,
		}
	case model.FieldTypeRadio:
		if len(raw.Options) == 0 {
			return model.FieldConfig{}, fmt.Errorf("radio field requires options")
		}
		options := make([]model.Option, 0, len(raw.Options))
		for idx, opt := range raw.Options {
			if strings.TrimSpace(opt.Value) == "" {
				return model.FieldConfig{}, fmt.Errorf("options[%d] has an empty value", idx)
			}
			options = append(options, opt)
		}
		field.Radio = model.RadioOptions{Options: options}
	case model.FieldTypeDate:
		dateOpts, err := parseDateOptions(raw)
		if err != nil {
			return model.FieldConfig{}, err
		}
		field.Date = dateOpts
		initial, err := parseDateValue(raw.InitialValue, dateOpts.LayoutOrDefault())
		if err != nil {
			return model.FieldConfig{}, fmt.Errorf("initialValue: %w", err)
		}
		field.InitialValue = initial
	}

	return field, nil
}

func parseDateOptions(raw Field) (model.DateOptions, error) {
	opts := model.DateOptions{Layout: strings.TrimSpace(raw.Layout)}
	layout := opts.LayoutOrDefault()
	if min := strings.TrimSpace(raw.MinDate); min != "" {
		t, err := time.Parse(layout, min)
		if err != nil {
			return model.DateOptions{}, fmt.Errorf("minDate: %w", err)
		}
		opts.Min = &t
	}
	if max := strings.TrimSpace(raw.MaxDate); max != "" {
		t, err := time.Parse(layout, max)
		if err != nil {
			return model.DateOptions{}, fmt.Errorf("maxDate: %w", err)
		}
		opts.Max = &t
	}
	if opts.Min != nil && opts.Max != nil && opts.Max.Before(*opts.Min) {
		return model.DateOptions{}, fmt.Errorf("maxDate is before minDate")
	}
	return opts, nil
}

func parseDateValue(value any, layout string) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported date value %T", value)
	}
}

func cloneAnyMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func isConfigFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
