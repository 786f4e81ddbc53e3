package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/schema"
)

// errFindings marks a command that ran but reported problems.
var errFindings = errors.New("findings reported")

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <definition> <values>",
		Short: "Validate a values file against a definition",
		Long: `Validate submits the values through a form controller exactly like an
interactive session would. Valid values are printed in the configured output
format; violations are listed per path.`,
		Example: `  formstate validate profile values.yaml
  formstate validate forms/profile.yaml values.json --output pretty`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.definition(args[0])
			if err != nil {
				return err
			}
			values, err := loadValues(args[1])
			if err != nil {
				return err
			}
			return a.validate(cmd.Context(), cmd.OutOrStdout(), def, values)
		},
	}
}

func (a *app) validate(ctx context.Context, out io.Writer, def schema.Definition, values map[string]any) error {
	c := form.New(def.Fields, mergeValues(def.Initial, values), nil, form.WithLogger(a.logger))
	if !c.Submit() {
		errs := c.Errors()
		rows := make([][]string, 0, errs.Len())
		for _, path := range errs.Paths() {
			rows = append(rows, []string{path, errs.Get(path)})
		}
		fmt.Fprint(out, table([]string{"Path", "Message"}, rows))
		return fmt.Errorf("%s: %d violation(s): %w", def.ID, errs.Len(), errFindings)
	}

	renderer, err := render.DefaultRegistry().Get(a.cfg.Output)
	if err != nil {
		return err
	}
	data, err := renderer.Render(ctx, c.State())
	if err != nil {
		return err
	}
	_, err = out.Write(withNewline(data))
	return err
}

func newFillCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <definition>",
		Short: "Fill a form interactively",
		Long: `Fill prompts for every visible field in tab order, submits, and asks again
for the fields that failed validation. The accepted values are printed in the
configured output format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.definition(args[0])
			if err != nil {
				return err
			}
			return a.fill(cmd, def)
		},
	}
}

func (a *app) fill(cmd *cobra.Command, def schema.Definition) error {
	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
	}
	session, err := tui.New(
		tui.WithPromptDriver(driver),
		tui.WithOutputFormat(tui.OutputFormat(a.cfg.Output)),
		tui.WithMaxAttempts(a.cfg.MaxAttempts),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	c := form.New(def.Fields, def.Initial, nil, form.WithLogger(a.logger))
	data, err := session.Run(cmd.Context(), c)
	if err != nil {
		return err
	}
	a.logger.Info("form filled", zap.String("definition", def.ID), zap.String("submission", c.Submission()))
	_, err = cmd.OutOrStdout().Write(withNewline(data))
	return err
}

func newLayoutCmd(a *app) *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "layout <definition>",
		Short: "Print the tab layout and widgets for a definition",
		Long: `Layout shows which fields are visible for the given values, how they are
grouped into tabs and which widget renders each of them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.definition(args[0])
			if err != nil {
				return err
			}
			var values map[string]any
			if valuesPath != "" {
				if values, err = loadValues(valuesPath); err != nil {
					return err
				}
			}
			printLayout(cmd.OutOrStdout(), def, mergeValues(def.Initial, values))
			return nil
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "values file used to evaluate visibility")
	return cmd
}

func printLayout(out io.Writer, def schema.Definition, values map[string]any) {
	c := form.New(def.Fields, values, nil)
	view := c.View()

	var rows [][]string
	add := func(tab string, bindings []render.Binding) {
		for _, b := range bindings {
			rows = append(rows, []string{tab, b.Name, string(b.Field.Type), b.Widget, fmt.Sprint(len(b.Entries))})
			for _, entry := range b.Entries {
				for _, nested := range entry.Fields {
					rows = append(rows, []string{tab, nested.Name, string(nested.Field.Type), nested.Widget, ""})
				}
			}
		}
	}
	add("", view.Untabbed)
	for _, name := range view.Tabs {
		c.SelectTab(name)
		add(name, c.View().Active)
	}

	if def.Title != "" {
		fmt.Fprintf(out, "%s (%s)\n", def.Title, def.ID)
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "no visible fields")
		return
	}
	fmt.Fprint(out, table([]string{"Tab", "Field", "Type", "Widget", "Entries"}, rows))
}

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint [definition...]",
		Short: "Check definitions for unknown keys and incomplete fields",
		Long: `Lint parses definitions and reports expressions that reference undeclared
keys, repeatable groups without sub-fields and choice inputs without options.
Without arguments every definition in the definitions directory is linted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defs, err := a.lintTargets(args)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, def := range defs {
				for _, warning := range schema.Lint(def) {
					rows = append(rows, []string{def.ID, warning.Path, warning.Message})
				}
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintf(out, "%d definition(s) clean\n", len(defs))
				return nil
			}
			fmt.Fprint(out, table([]string{"Definition", "Path", "Warning"}, rows))
			return fmt.Errorf("%d warning(s): %w", len(rows), errFindings)
		},
	}
}

func (a *app) lintTargets(args []string) ([]schema.Definition, error) {
	if len(args) > 0 {
		defs := make([]schema.Definition, 0, len(args))
		for _, arg := range args {
			def, err := a.definition(arg)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		}
		return defs, nil
	}

	catalog, err := a.catalog()
	if err != nil {
		return nil, err
	}
	defs := make([]schema.Definition, 0, catalog.Len())
	for _, id := range catalog.IDs() {
		def, err := catalog.Definition(id)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// definition resolves a file path first and falls back to an id in the
// definitions directory.
func (a *app) definition(ref string) (schema.Definition, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return schema.LoadFile(ref, a.schemaOptions()...)
	}
	catalog, err := a.catalog()
	if err != nil {
		return schema.Definition{}, err
	}
	return catalog.Definition(ref)
}

func (a *app) catalog() (*schema.Catalog, error) {
	dir := a.cfg.Definitions
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("definitions directory %q is not readable", dir)
	}
	return schema.LoadFS(os.DirFS(dir), a.schemaOptions()...)
}

func (a *app) schemaOptions() []schema.Option {
	return []schema.Option{schema.WithLogger(a.logger)}
}

// loadValues reads a JSON or YAML object of field values.
func loadValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := map[string]any{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &values)
	} else {
		err = yaml.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

// mergeValues overlays values on the definition defaults.
func mergeValues(initial, values map[string]any) map[string]any {
	out := make(map[string]any, len(initial)+len(values))
	for key, value := range initial {
		out[key] = value
	}
	for key, value := range values {
		out[key] = value
	}
	return out
}

func withNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return data
	}
	return append(data, '\n')
}
