package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formconfig"
	"github.com/goliatone/go-formstate/pkg/logging"
)

// errInvalid is returned by commands that report an invalid form. main exits
// non-zero without printing it again.
var errInvalid = errors.New("form is invalid")

type app struct {
	logLevel  string
	logFormat string
	formsDir  string
	logger    *zap.Logger
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "formstate",
		Short: "Fill and validate forms from the terminal",
		Long: `formstate loads form definitions from JSON or YAML files and drives
them through the form state controller.

Without --forms the bundled sample forms (contact, booking) are used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.NewWithWriter(cmd.ErrOrStderr(), a.logLevel, logging.Format(a.logFormat))
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", string(logging.FormatConsole), "log format (console, json)")
	flags.StringVar(&a.formsDir, "forms", "", "directory of form definitions")

	root.AddCommand(
		listCmd(a),
		fillCmd(a),
		checkCmd(a),
		openapiCmd(a),
	)
	return root
}

func (a *app) store() (*formconfig.Store, error) {
	var fsys fs.FS = formconfig.EmbeddedFS()
	if a.formsDir != "" {
		fsys = os.DirFS(a.formsDir)
	}
	store, err := formconfig.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("no forms found in %s", a.formsSource())
	}
	return store, nil
}

func (a *app) formsSource() string {
	if a.formsDir == "" {
		return "the embedded forms"
	}
	return fmt.Sprintf("%q", a.formsDir)
}

func listCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available forms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.store()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range store.IDs() {
				form, _ := store.Form(id)
				fmt.Fprintf(out, "%-20s %-30s %s\n", id, form.Title, store.Source(id))
			}
			return nil
		},
	}
}
