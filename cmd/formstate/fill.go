package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func fillCmd(a *app) *cobra.Command {
	var (
		maxRounds int
		confirm   bool
	)
	cmd := &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Fill a form interactively and print the submitted values",
		Long: `Prompts for every field of the form, then submits it. Fields that fail
validation are asked again until the form is valid. The submitted values are
printed as JSON.

Examples:
  formstate fill contact
  formstate fill signup --forms ./forms --max-rounds 3`,
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

			session, err := tui.NewSession(ctrl,
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
				tui.WithMaxRounds(maxRounds),
				tui.WithConfirmSubmit(confirm),
				tui.WithLogger(a.logger),
			)
			if err != nil {
				return err
			}
			values, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(values)
		},
	}
	cmd.Flags().IntVar(&maxRounds, "max-rounds", 5, "stop after this many correction rounds (0 for no limit)")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "ask for confirmation before submitting")
	return cmd
}
