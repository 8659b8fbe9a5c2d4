package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacentio/pawtrail/docstore"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Wait time.Duration
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the walker table and the animals schema",
		Long: `Create the DynamoDB walker table when it does not exist and apply the
relational schema. Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Wait, "wait", 2*time.Minute, "how long to wait for the table to become active")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	tables, ok := a.Dynamo.(docstore.TableAPI)
	if !ok {
		return NewExitError(ExitCommandError, "dynamodb client cannot manage tables")
	}

	table := a.Walkers.TableName()
	created, err := docstore.EnsureTable(cmd.Context(), tables, table, opts.Wait)
	if err != nil {
		return fail(f, "create table", err, map[string]string{"table": table})
	}

	// The relational schema is applied when the app opens the store.
	result := map[string]any{
		"table":   table,
		"created": created,
		"dialect": a.Animals.Dialect().Name,
	}
	return f.Success(result, func(out io.Writer) {
		state := "exists"
		if created {
			state = "created"
		}
		fmt.Fprintf(out, "Walker table %s %s\n", table, state)
		fmt.Fprintf(out, "Animals schema applied (%s)\n", a.Animals.Dialect().Name)
	})
}
