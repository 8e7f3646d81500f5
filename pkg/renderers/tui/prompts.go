package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Prompt asks for one field and writes the answer into the controller.
type Prompt interface {
	Field() model.FieldConfig
	Ask(ctx context.Context) error
}

// NewRegistry returns a widget registry with prompts for the built-in field
// types, all talking to driver.
func NewRegistry(driver PromptDriver) *widgets.Registry[Prompt] {
	return widgets.NewRegistry(Builtins(driver))
}

// Builtins returns the text, radio and date prompt builders.
func Builtins(driver PromptDriver) map[model.FieldType]widgets.Builder[Prompt] {
	return map[model.FieldType]widgets.Builder[Prompt]{
		model.FieldTypeText: func(field model.FieldConfig, ctrl *formstate.Controller) (Prompt, error) {
			return &textPrompt{base: newBase(driver, field, ctrl)}, nil
		},
		model.FieldTypeRadio: func(field model.FieldConfig, ctrl *formstate.Controller) (Prompt, error) {
			if len(field.Radio.Options) == 0 {
				return nil, errors.New("radio field has no options")
			}
			return &radioPrompt{base: newBase(driver, field, ctrl)}, nil
		},
		model.FieldTypeDate: func(field model.FieldConfig, ctrl *formstate.Controller) (Prompt, error) {
			return &datePrompt{base: newBase(driver, field, ctrl)}, nil
		},
	}
}

type base struct {
	driver PromptDriver
	field  model.FieldConfig
	ctrl   *formstate.Controller
}

func newBase(driver PromptDriver, field model.FieldConfig, ctrl *formstate.Controller) base {
	return base{driver: driver, field: field, ctrl: ctrl}
}

func (b base) Field() model.FieldConfig {
	return b.field
}

func (b base) label() string {
	label := b.field.Label
	if label == "" {
		label = b.field.ID
	}
	if b.field.Required {
		label += " *"
	}
	return label
}

func (b base) current() string {
	v, _ := b.ctrl.Value(b.field.ID)
	return validation.Stringify(v)
}

type textPrompt struct {
	base
}

func (p *textPrompt) Ask(ctx context.Context) error {
	opts := p.field.Text
	help := opts.HelpText
	if help == "" {
		help = opts.Placeholder
	}

	var (
		answer string
		err    error
	)
	switch {
	case opts.Secret:
		answer, err = p.driver.Password(ctx, InputConfig{Message: p.label(), Help: help})
	case opts.Multiline:
		answer, err = p.driver.TextArea(ctx, TextAreaConfig{Message: p.label(), Default: p.current(), Help: help})
	default:
		answer, err = p.driver.Input(ctx, InputConfig{Message: p.label(), Default: p.current(), Help: help})
	}
	if err != nil {
		return err
	}
	p.ctrl.SetValue(p.field.ID, answer)
	return nil
}

type radioPrompt struct {
	base
}

func (p *radioPrompt) Ask(ctx context.Context) error {
	options := p.field.Radio.Options
	labels := make([]string, len(options))
	current := p.current()
	defaultIdx := 0
	for i, opt := range options {
		labels[i] = opt.DisplayLabel()
		if opt.Value == current {
			defaultIdx = i
		}
	}

	idx, err := p.driver.Select(ctx, SelectConfig{
		Message:      p.label(),
		Options:      labels,
		DefaultIndex: defaultIdx,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return fmt.Errorf("tui: field %q: selection %d out of range", p.field.ID, idx)
	}
	p.ctrl.SetValue(p.field.ID, options[idx].Value)
	return nil
}

type datePrompt struct {
	base
}

func (p *datePrompt) Ask(ctx context.Context) error {
	opts := p.field.Date
	layout := opts.LayoutOrDefault()

	def := ""
	if v, ok := p.ctrl.Value(p.field.ID); ok {
		if t, isTime := v.(time.Time); isTime {
			def = t.Format(layout)
		} else {
			def = validation.Stringify(v)
		}
	}

	answer, err := p.driver.Input(ctx, InputConfig{
		Message: p.label(),
		Default: def,
		Help:    dateHelp(opts, layout),
		Validator: func(s string) error {
			_, err := parseDate(s, opts)
			return err
		},
	})
	if err != nil {
		return err
	}
	t, err := parseDate(answer, opts)
	if err != nil {
		return err
	}
	if t == nil {
		p.ctrl.SetValue(p.field.ID, nil)
		return nil
	}
	p.ctrl.SetValue(p.field.ID, *t)
	return nil
}

// parseDate returns nil for blank input so the required check reports it.
func parseDate(s string, opts model.DateOptions) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	layout := opts.LayoutOrDefault()
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, fmt.Errorf("use the format %s", layout)
	}
	if opts.Min != nil && t.Before(*opts.Min) {
		return nil, fmt.Errorf("must be on or after %s", opts.Min.Format(layout))
	}
	if opts.Max != nil && t.After(*opts.Max) {
		return nil, fmt.Errorf("must be on or before %s", opts.Max.Format(layout))
	}
	return &t, nil
}

func dateHelp(opts model.DateOptions, layout string) string {
	switch {
	case opts.Min != nil && opts.Max != nil:
		return fmt.Sprintf("%s, between %s and %s", layout, opts.Min.Format(layout), opts.Max.Format(layout))
	case opts.Min != nil:
		return fmt.Sprintf("%s, from %s", layout, opts.Min.Format(layout))
	case opts.Max != nil:
		return fmt.Sprintf("%s, until %s", layout, opts.Max.Format(layout))
	default:
		return layout
	}
}
