package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report walker/animal reference inconsistencies",
		Long: `Scan both stores and report animals missing from their walker's list,
duplicate list entries, animals naming unknown walkers and list entries for
unknown animals. Nothing is repaired. Exits 1 when issues are found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, cmd)
		},
	}
}

func runAudit(opts *RootOptions, cmd *cobra.Command) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	rep, err := a.Sync.Audit(cmd.Context())
	if err != nil {
		return fail(f, "audit", err, nil)
	}

	if err := f.Success(rep, func(out io.Writer) {
		fmt.Fprintf(out, "Scanned %d walkers, %d animals\n", rep.Walkers, rep.Animals)
		if rep.Consistent() {
			fmt.Fprintln(out, "No inconsistencies found.")
			return
		}
		for _, issue := range rep.Issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
	}); err != nil {
		return err
	}

	if !rep.Consistent() {
		return NewExitError(ExitFailure, fmt.Sprintf("audit found %d inconsistencies", len(rep.Issues)))
	}
	return nil
}
