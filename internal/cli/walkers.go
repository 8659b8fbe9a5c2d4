package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jacentio/pawtrail/model"
)

// NewWalkersCommand creates the walkers command group.
func NewWalkersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "walkers",
		Short: "Create and list walkers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a walker with no animals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return createWalker(rootOpts, cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all walkers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listWalkers(rootOpts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "dogs <walker-id>",
		Short: "List the animals a walker references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return walkerDogs(rootOpts, cmd, args[0])
		},
	})

	return cmd
}

func createWalker(opts *RootOptions, cmd *cobra.Command, name string) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	w, err := a.Service.CreateWalker(cmd.Context(), name)
	if err != nil {
		return fail(f, "create walker", err, nil)
	}
	return f.Success(w, func(out io.Writer) {
		fmt.Fprintf(out, "Created walker %s (%s)\n", w.ID, w.Name)
	})
}

func listWalkers(opts *RootOptions, cmd *cobra.Command) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	walkers, err := a.Service.ListWalkers(cmd.Context())
	if err != nil {
		return fail(f, "list walkers", err, nil)
	}
	return f.Success(walkers, func(out io.Writer) {
		writeWalkers(out, walkers)
	})
}

func walkerDogs(opts *RootOptions, cmd *cobra.Command, rawID string) error {
	id, err := model.ParseWalkerID(rawID)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid walker id", err)
	}

	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	w, err := a.Walkers.FindByID(cmd.Context(), id)
	if err != nil {
		return fail(f, "find walker", err, map[string]string{"walkerId": id.String()})
	}
	f.VerboseLog("walker %s references %d animal ids", w.ID, len(w.AnimalIDs))

	dogs, err := a.Service.DogsOf(cmd.Context(), w)
	if err != nil {
		return fail(f, "resolve dogs", err, nil)
	}
	return f.Success(dogs, func(out io.Writer) {
		writeAnimals(out, dogs)
	})
}

func writeWalkers(out io.Writer, walkers []model.Walker) {
	if len(walkers) == 0 {
		fmt.Fprintln(out, "No walkers.")
		return
	}
	for _, w := range walkers {
		fmt.Fprintf(out, "%s  %-20s  animals=%v\n", w.ID, w.Name, w.AnimalIDs)
	}
}

// fail prints err through f and returns an ExitFailure error for op.
func fail(f *OutputFormatter, op string, err error, details any) error {
	if werr := f.Error(err, details); werr != nil {
		return werr
	}
	return WrapExitError(ExitFailure, op+" failed", err)
}
