// Package refsync keeps a walker's animal id list in step with the animals
// table on write.
package refsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jacentio/pawtrail/model"
)

// AnimalStore is the relational side of the synchronizer.
type AnimalStore interface {
	Insert(ctx context.Context, name, breed string, walkerID *model.WalkerID) (model.Animal, error)
	FindAll(ctx context.Context) ([]model.Animal, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Animal, error)
}

// WalkerStore is the document side of the synchronizer.
type WalkerStore interface {
	AppendAnimalID(ctx context.Context, walkerID model.WalkerID, animalID int64) error
	FindAll(ctx context.Context) ([]model.Walker, error)
}

// PartialWriteError reports an animal that was inserted but could not be
// appended to its walker. The row is not rolled back.
type PartialWriteError struct {
	Animal   model.Animal
	WalkerID model.WalkerID
	Err      error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%v: animal %d, walker %s: %v", model.ErrPartialWrite, e.Animal.ID, e.WalkerID, e.Err)
}

// Unwrap exposes both model.ErrPartialWrite and the append failure.
func (e *PartialWriteError) Unwrap() []error {
	return []error{model.ErrPartialWrite, e.Err}
}

// Synchronizer runs the two-step create-animal write.
type Synchronizer struct {
	animals AnimalStore
	walkers WalkerStore
	logger  *slog.Logger
}

// New creates a Synchronizer. A nil logger uses slog.Default().
func New(animals AnimalStore, walkers WalkerStore, logger *slog.Logger) *Synchronizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synchronizer{
		animals: animals,
		walkers: walkers,
		logger:  logger,
	}
}

// CreateAnimal inserts the animal row and then appends its id to the owning
// walker. Step 2 starts only after step 1 succeeded; if it fails the returned
// animal is still populated and err is a *PartialWriteError.
func (s *Synchronizer) CreateAnimal(ctx context.Context, name, breed string, walkerID *model.WalkerID) (model.Animal, error) {
	// 1. Insert into the relational store
	animal, err := s.animals.Insert(ctx, name, breed, walkerID)
	if err != nil {
		return model.Animal{}, err
	}

	if walkerID == nil {
		return animal, nil
	}

	// 2. Reference it from the walker document
	if err := s.walkers.AppendAnimalID(ctx, *walkerID, animal.ID); err != nil {
		s.logger.Error("animal inserted without walker reference",
			"animalID", animal.ID,
			"walkerID", walkerID.String(),
			"error", err,
		)
		return animal, &PartialWriteError{Animal: animal, WalkerID: *walkerID, Err: err}
	}

	s.logger.Debug("animal linked to walker",
		"animalID", animal.ID,
		"walkerID", walkerID.String(),
	)
	return animal, nil
}
