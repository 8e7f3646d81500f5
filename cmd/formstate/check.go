package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/validation"
)

type checkReport struct {
	validation.Result
	Values     map[string]any `json:"values"`
	FormErrors []string       `json:"formErrors,omitempty"`
}

func checkCmd(a *app) *cobra.Command {
	var (
		valuesPath string
		patchPath  string
		errorsPath string
	)
	cmd := &cobra.Command{
		Use:   "check <form-id>",
		Short: "Validate a set of values against a form",
		Long: `Seeds the form with its initial values, applies --values (a JSON object
keyed by field id) and then --patch (an RFC 6902 JSON patch), validates and
prints the result. --server-errors merges a map of path to messages, such as a
backend validation response, into the result.

The command exits with status 1 when the form is invalid.

Examples:
  formstate check contact --values contact.json
  formstate check contact --values contact.json --patch fix.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			cfg, ok := store.Form(args[0])
			if !ok {
				return fmt.Errorf("unknown form %q", args[0])
			}
			ctrl, err := formstate.New(cfg, formstate.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer ctrl.Dispose()

			if valuesPath != "" {
				var values map[string]any
				if err := readJSON(valuesPath, &values); err != nil {
					return err
				}
				ids := make([]string, 0, len(values))
				for id := range values {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					ctrl.SetValue(id, values[id])
				}
			}
			if patchPath != "" {
				patch, err := os.ReadFile(patchPath)
				if err != nil {
					return fmt.Errorf("read patch: %w", err)
				}
				if err := ctrl.ApplyPatch(patch); err != nil {
					return err
				}
			}

			ctrl.Validate()
			report := checkReport{}
			if errorsPath != "" {
				var payload map[string][]string
				if err := readJSON(errorsPath, &payload); err != nil {
					return err
				}
				report.FormErrors = ctrl.ApplyErrors(payload)
			}
			report.Result = validation.NewResult(ctrl.Errors())
			report.Values = ctrl.Values()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if !report.Valid || len(report.FormErrors) > 0 {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file with field values")
	cmd.Flags().StringVar(&patchPath, "patch", "", "JSON patch applied after --values")
	cmd.Flags().StringVar(&errorsPath, "server-errors", "", "JSON file mapping paths to error messages")
	return cmd
}

func readJSON(path string, target any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
