package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/openapi"
)

func openapiCmd(a *app) *cobra.Command {
	var formID string
	cmd := &cobra.Command{
		Use:   "openapi <document> [operation-id]",
		Short: "Derive a form definition from an OpenAPI operation",
		Long: `Without an operation id, lists the operations of the document. With one,
prints a YAML forms document built from the operation's request body that can
be passed back through --forms.

Examples:
  formstate openapi api.yaml
  formstate openapi api.yaml createContact > forms/contact.yaml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openapi.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				for _, id := range doc.OperationIDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			opID := args[1]
			def, err := doc.Definition(opID)
			if err != nil {
				return err
			}
			id := formID
			if id == "" {
				id = opID
			}
			// Round-trip through Build so rule params are checked before printing.
			if _, err := formconfig.Build(id, def); err != nil {
				return err
			}
			a.logger.Sugar().Debugw("form derived", "operation", opID, "fields", len(def.Fields))

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(formconfig.Document{Forms: map[string]formconfig.Form{id: def}}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&formID, "id", "", "form id to use instead of the operation id")
	return cmd
}
