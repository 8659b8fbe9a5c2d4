package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jacentio/pawtrail/model"
	"github.com/jacentio/pawtrail/refsync"
)

// AnimalsCreateOptions holds flags for the animals create command.
type AnimalsCreateOptions struct {
	*RootOptions
	Name   string
	Breed  string
	Walker string
}

// NewAnimalsCommand creates the animals command group.
func NewAnimalsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animals",
		Short: "Create and list animals",
	}

	createOpts := &AnimalsCreateOptions{RootOptions: rootOpts}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an animal, optionally assigned to a walker",
		Long: `Create an animal in the relational store. With --walker the animal id is
also appended to the walker's animal list.

Example:
  pawtrail animals create --name Ponzu --breed Pomeranian --walker 6f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAnimal(createOpts, cmd)
		},
	}
	create.Flags().StringVar(&createOpts.Name, "name", "", "animal name")
	create.Flags().StringVar(&createOpts.Breed, "breed", "", "breed (at most 60 characters)")
	create.Flags().StringVar(&createOpts.Walker, "walker", "", "walker id to assign the animal to")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("breed")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all animals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listAnimals(rootOpts, cmd)
		},
	})

	return cmd
}

func createAnimal(opts *AnimalsCreateOptions, cmd *cobra.Command) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	animal, err := a.Service.CreateAnimal(cmd.Context(), opts.Name, opts.Breed, opts.Walker)
	if err != nil {
		var pw *refsync.PartialWriteError
		if errors.As(err, &pw) {
			return fail(f, "create animal", err, map[string]any{
				"animalId": pw.Animal.ID,
				"walkerId": pw.WalkerID.String(),
			})
		}
		return fail(f, "create animal", err, nil)
	}
	return f.Success(animal, func(out io.Writer) {
		fmt.Fprintf(out, "Created animal %d (%s, %s)\n", animal.ID, animal.Name, animal.Breed)
	})
}

func listAnimals(opts *RootOptions, cmd *cobra.Command) error {
	a, err := opts.openApp(cmd)
	if err != nil {
		return err
	}
	defer opts.closeApp(cmd, a)
	f := opts.formatter(cmd)

	animals, err := a.Service.ListAnimals(cmd.Context())
	if err != nil {
		return fail(f, "list animals", err, nil)
	}
	return f.Success(animals, func(out io.Writer) {
		writeAnimals(out, animals)
	})
}

func writeAnimals(out io.Writer, animals []model.Animal) {
	if len(animals) == 0 {
		fmt.Fprintln(out, "No animals.")
		return
	}
	for _, a := range animals {
		walker := "-"
		if a.WalkerID != nil {
			walker = a.WalkerID.String()
		}
		fmt.Fprintf(out, "%-6d %-20s %-20s walker=%s\n", a.ID, a.Name, a.Breed, walker)
	}
}
