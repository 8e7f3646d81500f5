package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	passwords    []string
	infoMessages []string
	inputCfgs    []InputConfig
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
	passPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newController(t *testing.T, cfg model.FormConfig) *formstate.Controller {
	t.Helper()
	ctrl, err := formstate.New(cfg)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(ctrl.Dispose)
	return ctrl
}

func contactForm() model.FormConfig {
	return model.FormConfig{
		ID:    "contact",
		Title: "Contact",
		Fields: []model.FieldConfig{
			{ID: "email", Type: model.FieldTypeText, Label: "Email", Required: true, Validators: []validation.Validator{validation.Email("")}},
			{ID: "topic", Type: model.FieldTypeRadio, Label: "Topic", Radio: model.RadioOptions{Options: []model.Option{
				{Value: "general", Label: "General"},
				{Value: "billing"},
			}}},
			{ID: "message", Type: model.FieldTypeText, Label: "Message", Text: model.TextOptions{Multiline: true}},
			{ID: "pin", Type: model.FieldTypeText, Text: model.TextOptions{Secret: true}},
		},
	}
}

func TestRun_AllFieldsValid(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ada@example.com"},
		selectIdx: []int{1},
		textAreas: []string{"hello\nthere"},
		passwords: []string{"1234"},
	}
	ctrl := newController(t, contactForm())
	session, err := NewSession(ctrl, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	values, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[string]any{
		"email":   "ada@example.com",
		"topic":   "billing",
		"message": "hello\nthere",
		"pin":     "1234",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Contact"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.inputCfgs[0].Message != "Email *" {
		t.Fatalf("expected required marker in label, got %q", driver.inputCfgs[0].Message)
	}
}

func TestRun_AsksFailingFieldsAgain(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"nope", "ada@example.com"},
		selectIdx: []int{0},
		textAreas: []string{""},
		passwords: []string{""},
	}
	ctrl := newController(t, contactForm())
	session, err := NewSession(ctrl, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	values, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if values["email"] != "ada@example.com" {
		t.Fatalf("expected corrected email, got %v", values["email"])
	}
	if driver.selectPos != 1 || driver.textPos != 1 || driver.passPos != 1 {
		t.Fatalf("expected only the failing field to be asked again")
	}
	want := []string{"Contact", "Email: Invalid email address"}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_TooManyRounds(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", "", ""}}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "name", Type: model.FieldTypeText, Required: true},
	}})
	session, _ := NewSession(ctrl, WithPromptDriver(driver), WithMaxRounds(2))

	_, err := session.Run(context.Background())
	if !errors.Is(err, ErrTooManyRounds) {
		t.Fatalf("expected ErrTooManyRounds, got %v", err)
	}
	if driver.inputPos != 3 {
		t.Fatalf("expected 3 attempts, got %d", driver.inputPos)
	}
	if !ctrl.HasFieldError("name") {
		t.Fatalf("expected controller to keep the required error")
	}
}

func TestRun_ConfirmDeclined(t *testing.T) {
	driver := &stubDriver{inputs: []string{"x"}, confirm: []bool{false}}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "name", Type: model.FieldTypeText},
	}})
	session, _ := NewSession(ctrl, WithPromptDriver(driver), WithConfirmSubmit(true))
	if _, err := session.Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if ctrl.HasValidated() {
		t.Fatalf("expected no submit after declining")
	}
}

func TestRun_DriverErrorStops(t *testing.T) {
	driver := &stubDriver{}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "name", Type: model.FieldTypeText},
	}})
	session, _ := NewSession(ctrl, WithPromptDriver(driver))
	if _, err := session.Run(context.Background()); err == nil {
		t.Fatalf("expected driver error to surface")
	}
}

func TestRun_CustomFieldType(t *testing.T) {
	driver := &stubDriver{confirm: []bool{true}}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "agree", Type: model.CustomFieldType("toggle"), Required: true},
	}})

	registry := NewRegistry(driver)
	session, err := NewSession(ctrl, WithPromptDriver(driver), WithRegistry(registry))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.Run(context.Background()); err == nil {
		t.Fatalf("expected unregistered type to fail")
	}

	registry.MustRegister(model.CustomFieldType("toggle"), func(field model.FieldConfig, ctrl *formstate.Controller) (Prompt, error) {
		return &togglePrompt{base: newBase(driver, field, ctrl)}, nil
	})
	values, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if values["agree"] != true {
		t.Fatalf("expected custom prompt value, got %v", values["agree"])
	}
}

type togglePrompt struct {
	base
}

func (p *togglePrompt) Ask(ctx context.Context) error {
	ok, err := p.driver.Confirm(ctx, ConfirmConfig{Message: p.label()})
	if err != nil {
		return err
	}
	p.ctrl.SetValue(p.field.ID, ok)
	return nil
}

func TestDatePrompt(t *testing.T) {
	lo := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	initial := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	driver := &stubDriver{inputs: []string{"2024-07-04"}}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "day", Type: model.FieldTypeDate, Label: "Day", InitialValue: initial, Date: model.DateOptions{Min: &lo, Max: &hi}},
	}})
	session, _ := NewSession(ctrl, WithPromptDriver(driver))

	values, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, ok := values["day"].(time.Time)
	if !ok || !got.Equal(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date mismatch: %v", values["day"])
	}

	cfg := driver.inputCfgs[0]
	if cfg.Default != "2024-06-01" {
		t.Fatalf("expected formatted default, got %q", cfg.Default)
	}
	if cfg.Help != "2006-01-02, between 2024-01-01 and 2024-12-31" {
		t.Fatalf("help mismatch: %q", cfg.Help)
	}
	for input, wantErr := range map[string]bool{
		"2024-03-03": false,
		"":           false,
		"03/03/2024": true,
		"2023-12-31": true,
		"2025-01-01": true,
	} {
		if err := cfg.Validator(input); (err != nil) != wantErr {
			t.Fatalf("validator(%q): expected error=%v, got %v", input, wantErr, err)
		}
	}
}

func TestBuiltins_RadioWithoutOptions(t *testing.T) {
	driver := &stubDriver{}
	ctrl := newController(t, model.FormConfig{Fields: []model.FieldConfig{
		{ID: "choice", Type: model.FieldTypeRadio},
	}})
	if _, err := NewRegistry(driver).BuildAll(ctrl); err == nil {
		t.Fatalf("expected radio without options to fail")
	}
}
