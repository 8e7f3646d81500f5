package openapi

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/model"
	"github.com/goliatone/go-formstate/pkg/validation"
)

const (
	integerPattern = `^-?[0-9]+$`
	numberPattern  = `^-?[0-9]+(\.[0-9]+)?$`
)

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Definition maps the request body of operationID to a form definition.
//
//   - string properties with an enum become radio fields
//   - format "date" becomes a date field
//   - every other scalar becomes a text field; format "password" is secret
//   - format "email", minLength, maxLength and pattern become rules
//   - integer and number properties get a numeric pattern rule
//
// Object and array properties are skipped, as are readOnly ones. Fields are
// ordered by property name.
func (d *Document) Definition(operationID string) (formconfig.Form, error) {
	ref, err := d.operation(operationID)
	if err != nil {
		return formconfig.Form{}, err
	}
	body := requestSchema(ref.op.RequestBody)
	if body == nil {
		return formconfig.Form{}, fmt.Errorf("openapi: operation %q has no request body schema", operationID)
	}

	form := formconfig.Form{Title: ref.op.Summary}
	if form.Title == "" {
		form.Title = body.Title
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := body.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		field, ok := fieldFromSchema(name, prop.Value)
		if !ok {
			continue
		}
		_, field.Required = required[name]
		form.Fields = append(form.Fields, field)
	}
	if len(form.Fields) == 0 {
		return formconfig.Form{}, fmt.Errorf("openapi: operation %q has no scalar request properties", operationID)
	}
	return form, nil
}

// FormConfig builds the runtime form for operationID. The form id is the
// operation id.
func (d *Document) FormConfig(operationID string, options ...formconfig.Option) (model.FormConfig, error) {
	def, err := d.Definition(operationID)
	if err != nil {
		return model.FormConfig{}, err
	}
	return formconfig.Build(operationID, def, options...)
}

// FormFromOperation loads raw and returns the form for operationID.
func FormFromOperation(ctx context.Context, raw []byte, operationID string, options ...formconfig.Option) (model.FormConfig, error) {
	doc, err := Load(ctx, raw)
	if err != nil {
		return model.FormConfig{}, err
	}
	return doc.FormConfig(operationID, options...)
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func fieldFromSchema(name string, schema *openapi3.Schema) (formconfig.Field, bool) {
	if schema.ReadOnly || schema.Type.Is(openapi3.TypeObject) || schema.Type.Is(openapi3.TypeArray) {
		return formconfig.Field{}, false
	}

	field := formconfig.Field{
		ID:           name,
		Type:         string(model.FieldTypeText),
		Label:        schema.Title,
		InitialValue: schema.Default,
	}
	if field.Label == "" {
		field.Label = humanize(name)
	}

	switch {
	case len(schema.Enum) > 0:
		field.Type = string(model.FieldTypeRadio)
		for _, value := range schema.Enum {
			s := validation.Stringify(value)
			field.Options = append(field.Options, model.Option{Value: s})
		}
		if field.InitialValue != nil {
			field.InitialValue = validation.Stringify(field.InitialValue)
		}
		return field, true
	case schema.Format == "date":
		field.Type = string(model.FieldTypeDate)
		return field, true
	}

	field.HelpText = schema.Description
	field.Secret = schema.Format == "password"

	if schema.Format == "email" {
		field.Validators = append(field.Validators, validation.Rule{Kind: validation.RuleEmail})
	}
	if schema.MinLength > 0 {
		field.Validators = append(field.Validators, validation.Rule{
			Kind:   validation.RuleMinLength,
			Params: map[string]string{"value": strconv.FormatUint(schema.MinLength, 10)},
		})
	}
	if schema.MaxLength != nil {
		field.Validators = append(field.Validators, validation.Rule{
			Kind:   validation.RuleMaxLength,
			Params: map[string]string{"value": strconv.FormatUint(*schema.MaxLength, 10)},
		})
	}
	if schema.Pattern != "" {
		field.Validators = append(field.Validators, validation.Rule{
			Kind:   validation.RulePattern,
			Params: map[string]string{"pattern": schema.Pattern},
		})
	}
	switch {
	case schema.Type.Is(openapi3.TypeInteger):
		field.Validators = append(field.Validators, validation.Rule{
			Kind:    validation.RulePattern,
			Message: "Must be a whole number",
			Params:  map[string]string{"pattern": integerPattern},
		})
	case schema.Type.Is(openapi3.TypeNumber):
		field.Validators = append(field.Validators, validation.Rule{
			Kind:    validation.RulePattern,
			Message: "Must be a number",
			Params:  map[string]string{"pattern": numberPattern},
		})
	}
	return field, true
}

// humanize turns "first_name" and "firstName" into "First name".
func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z':
			b.WriteRune(' ')
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return name
	}
	return strings.ToUpper(out[:1]) + out[1:]
}
