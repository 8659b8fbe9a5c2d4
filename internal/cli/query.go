package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jacentio/pawtrail/graph"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	File          string
	Variables     string
	OperationName string
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query [document]",
		Short: "Run a query or mutation document",
		Long: `Run a GraphQL query or mutation against both stores and print the
response as JSON. The document is read from the argument, from --file, or
from stdin when the argument is "-".

Example:
  pawtrail query '{ users { name dogs { name breed } } }'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd, args)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the document from a file")
	cmd.Flags().StringVar(&opts.Variables, "vars", "", "variables as a JSON object")
	cmd.Flags().StringVar(&opts.OperationName, "operation", "", "operation to run when the document holds several")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, args []string) error {
	doc, err := readDocument(opts, cmd, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "reading document", err)
	}

	var vars map[string]any
	if opts.Variables != "" {
		if err := json.Unmarshal([]byte(opts.Variables), &vars); err != nil {
			return WrapExitError(ExitCommandError, "invalid --vars JSON", err)
		}
	}

	req, err := graph.ParseRequest(doc, opts.OperationName, vars)
	if err != nil {
		return WrapExitError(ExitCommandError, "parsing document", err)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)

	resp := a.Service.Execute(cmd.Context(), req)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d field errors", len(resp.Errors)))
	}
	return nil
}

func readDocument(opts *QueryOptions, cmd *cobra.Command, args []string) (string, error) {
	switch {
	case opts.File != "" && len(args) > 0:
		return "", fmt.Errorf("pass the document as an argument or with --file, not both")
	case opts.File != "":
		data, err := os.ReadFile(opts.File)
		return string(data), err
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	case len(args) == 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("no document given")
	}
}
