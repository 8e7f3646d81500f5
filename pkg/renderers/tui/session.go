package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/logging"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

const defaultMaxRounds = 5

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithRegistry supplies the prompt registry, e.g. one with builders for
// custom field types. It must have been created for the same driver.
func WithRegistry(registry *widgets.Registry[Prompt]) Option {
	return func(s *Session) {
		s.registry = registry
	}
}

// WithMaxRounds caps how many times failing fields are asked again after the
// first pass. Zero or less means no cap.
func WithMaxRounds(n int) Option {
	return func(s *Session) {
		s.maxRounds = n
	}
}

// WithConfirmSubmit asks for confirmation before the first submit attempt.
func WithConfirmSubmit(enabled bool) Option {
	return func(s *Session) {
		s.confirm = enabled
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session walks a controller's fields in the terminal until the form submits.
type Session struct {
	ctrl      *formstate.Controller
	driver    PromptDriver
	registry  *widgets.Registry[Prompt]
	maxRounds int
	confirm   bool
	logger    *zap.Logger
}

// NewSession binds a session to ctrl. The default driver is survey on stdout.
func NewSession(ctrl *formstate.Controller, options ...Option) (*Session, error) {
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{
		ctrl:      ctrl,
		maxRounds: defaultMaxRounds,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	if s.registry == nil {
		s.registry = NewRegistry(s.driver)
	}
	return s, nil
}

// Run prompts every field once, then submits. While the form is invalid the
// errors are printed and only the failing fields are asked again. The
// submitted values are returned on success.
func (s *Session) Run(ctx context.Context) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	log := logging.For(s.logger, "tui")

	prompts, err := s.registry.BuildAll(s.ctrl)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Prompt, len(prompts))
	for _, p := range prompts {
		byID[p.Field().ID] = p
	}

	cfg := s.ctrl.Config()
	if cfg.Title != "" {
		if err := s.driver.Info(ctx, cfg.Title); err != nil {
			return nil, err
		}
	}

	pending := prompts
	for round := 0; ; round++ {
		for _, p := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := p.Ask(ctx); err != nil {
				return nil, err
			}
		}

		if round == 0 && s.confirm {
			ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: submitLabel(cfg.SubmitButtonText) + "?", Default: true})
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, ErrAborted
			}
		}

		var submitted map[string]any
		if s.ctrl.Submit(func(values map[string]any) { submitted = values }) {
			log.Debugw("form submitted", "form", cfg.ID, "rounds", round+1)
			return submitted, nil
		}

		if s.maxRounds > 0 && round >= s.maxRounds {
			return nil, fmt.Errorf("%w after %d rounds", ErrTooManyRounds, round+1)
		}

		pending = pending[:0:0]
		for _, id := range cfg.FieldIDs() {
			msgs := s.ctrl.FieldErrors(id)
			if len(msgs) == 0 {
				continue
			}
			label := id
			if p, ok := byID[id]; ok {
				if l := p.Field().Label; l != "" {
					label = l
				}
				pending = append(pending, p)
			}
			if err := s.driver.Info(ctx, fmt.Sprintf("%s: %s", label, strings.Join(msgs, "; "))); err != nil {
				return nil, err
			}
		}
		log.Debugw("form invalid, asking again", "form", cfg.ID, "fields", len(pending))
	}
}

func submitLabel(text string) string {
	if text == "" {
		return "Submit"
	}
	return text
}
