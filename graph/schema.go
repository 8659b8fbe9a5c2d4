package graph

import (
	"context"
	"fmt"

	"github.com/jacentio/pawtrail/model"
)

// Type names of the schema.
const (
	TypeQuery    = "Query"
	TypeMutation = "Mutation"
	TypeWalker   = "Walker"
	TypeAnimal   = "Animal"
)

// schema builds the dispatch table. Scalars read from the parent value;
// Walker.dogs and Animal.walker cross to the other store only when selected.
func (s *Service) schema() *Registry {
	r := NewRegistry()

	// Query
	r.Register(TypeQuery, "users", Field{Type: TypeWalker, List: true,
		Resolve: func(ctx context.Context, _ any, _ Args) (any, error) {
			walkers, err := s.ListWalkers(ctx)
			if err != nil {
				return nil, err
			}
			return listOf(walkers), nil
		}})
	r.Register(TypeQuery, "dogs", Field{Type: TypeAnimal, List: true,
		Resolve: func(ctx context.Context, _ any, _ Args) (any, error) {
			animals, err := s.ListAnimals(ctx)
			if err != nil {
				return nil, err
			}
			return listOf(animals), nil
		}})

	// Mutation
	r.Register(TypeMutation, "createWalker", Field{Type: TypeWalker,
		Resolve: func(ctx context.Context, _ any, args Args) (any, error) {
			name, err := args.required("name")
			if err != nil {
				return nil, err
			}
			return s.CreateWalker(ctx, name)
		}})
	r.Register(TypeMutation, "createAnimal", Field{Type: TypeAnimal,
		Resolve: func(ctx context.Context, _ any, args Args) (any, error) {
			name, err := args.required("name")
			if err != nil {
				return nil, err
			}
			breed, err := args.required("breed")
			if err != nil {
				return nil, err
			}
			walkerID, err := args.optional("walkerId")
			if err != nil {
				return nil, err
			}
			a, err := s.CreateAnimal(ctx, name, breed, walkerID)
			if err != nil {
				return nil, err
			}
			return a, nil
		}})

	// Walker
	r.Register(TypeWalker, "id", Field{Resolve: on(func(_ context.Context, w model.Walker, _ Args) (any, error) {
		return w.ID.String(), nil
	})})
	r.Register(TypeWalker, "name", Field{Resolve: on(func(_ context.Context, w model.Walker, _ Args) (any, error) {
		return w.Name, nil
	})})
	r.Register(TypeWalker, "dogs", Field{Type: TypeAnimal, List: true,
		Resolve: on(func(ctx context.Context, w model.Walker, _ Args) (any, error) {
			animals, err := s.DogsOf(ctx, w)
			if err != nil {
				return nil, err
			}
			return listOf(animals), nil
		})})

	// Animal
	r.Register(TypeAnimal, "id", Field{Resolve: on(func(_ context.Context, a model.Animal, _ Args) (any, error) {
		return a.ID, nil
	})})
	r.Register(TypeAnimal, "name", Field{Resolve: on(func(_ context.Context, a model.Animal, _ Args) (any, error) {
		return a.Name, nil
	})})
	r.Register(TypeAnimal, "breed", Field{Resolve: on(func(_ context.Context, a model.Animal, _ Args) (any, error) {
		return a.Breed, nil
	})})
	r.Register(TypeAnimal, "walkerId", Field{Resolve: on(func(_ context.Context, a model.Animal, _ Args) (any, error) {
		if a.WalkerID == nil {
			return nil, nil
		}
		return a.WalkerID.String(), nil
	})})
	r.Register(TypeAnimal, "walker", Field{Type: TypeWalker,
		Resolve: on(func(ctx context.Context, a model.Animal, _ Args) (any, error) {
			w, err := s.WalkerOf(ctx, a)
			if err != nil || w == nil {
				return nil, err
			}
			return *w, nil
		})})

	return r
}

// on adapts a resolver over a concrete parent type.
func on[T any](fn func(ctx context.Context, parent T, args Args) (any, error)) ResolveFunc {
	return func(ctx context.Context, parent any, args Args) (any, error) {
		p, ok := parent.(T)
		if !ok {
			var zero T
			return nil, fmt.Errorf("resolver expects parent %T, got %T", zero, parent)
		}
		return fn(ctx, p, args)
	}
}

// required returns a non-null string argument.
func (a Args) required(name string) (string, error) {
	v, ok := a[name]
	if !ok || v == nil {
		return "", fmt.Errorf("%w: argument %q is required", model.ErrWriteRejected, name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: argument %q must be a string, got %T", model.ErrWriteRejected, name, v)
	}
	return s, nil
}

// optional returns a string argument or "" when absent or null.
func (a Args) optional(name string) (string, error) {
	if v, ok := a[name]; !ok || v == nil {
		return "", nil
	}
	return a.required(name)
}
