package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/openapi"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		fill     bool
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "import <openapi-document> [operation]",
		Short: "Build a form from an OpenAPI request body",
		Long: `Import lists the operations of an OpenAPI 3 document. Given an operation id
it prints the layout of the form built from the operation's request body, or
fills it interactively with --fill.`,
		Example: `  formstate import api.yaml
  formstate import api.yaml createApplicant
  formstate import api.yaml createApplicant --fill --output pretty`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := openapi.New(openapi.WithLogger(a.logger), openapi.WithValidation(validate))
			doc, err := importer.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 {
				printOperations(cmd.OutOrStdout(), doc.Operations())
				return nil
			}

			def, err := doc.Definition(args[1])
			if err != nil {
				return err
			}
			if fill {
				return a.fill(cmd, def)
			}
			printLayout(cmd.OutOrStdout(), def, def.Initial)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fill, "fill", false, "fill the imported form interactively")
	cmd.Flags().BoolVar(&validate, "validate-document", false, "validate the OpenAPI document before importing")
	return cmd
}

func printOperations(out io.Writer, operations []openapi.Operation) {
	if len(operations) == 0 {
		fmt.Fprintln(out, "no operations")
		return
	}
	rows := make([][]string, 0, len(operations))
	for _, op := range operations {
		body := "no"
		if op.HasBody {
			body = "yes"
		}
		rows = append(rows, []string{op.ID, op.Method, op.Path, body, op.Summary})
	}
	fmt.Fprint(out, table([]string{"Operation", "Method", "Path", "Form", "Summary"}, rows))
}
