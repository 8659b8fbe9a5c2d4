package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jacentio/pawtrail/model"
)

// WalkerStore is the document store as seen by the resolvers.
type WalkerStore interface {
	FindAll(ctx context.Context) ([]model.Walker, error)
	FindByID(ctx context.Context, id model.WalkerID) (model.Walker, error)
	Insert(ctx context.Context, name string) (model.Walker, error)
}

// AnimalStore is the relational store as seen by the resolvers.
type AnimalStore interface {
	FindAll(ctx context.Context) ([]model.Animal, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Animal, error)
}

// AnimalCreator performs the synchronized create-animal write.
type AnimalCreator interface {
	CreateAnimal(ctx context.Context, name, breed string, walkerID *model.WalkerID) (model.Animal, error)
}

// Config holds configuration for the Service.
type Config struct {
	// MaxConcurrency bounds concurrently resolved list elements per list.
	// Default: 8
	MaxConcurrency int
}

// DefaultConfig returns the default resolver settings.
func DefaultConfig() Config {
	return Config{MaxConcurrency: 8}
}

func (c *Config) validate() {
	if c.MaxConcurrency < 1 {
		c.MaxConcurrency = 8
	}
}

// Operation kinds accepted by Execute.
const (
	OperationQuery    = "query"
	OperationMutation = "mutation"
)

// Request is a selection-driven call into the Service.
type Request struct {
	Operation string      `json:"operation"`
	Selection []Selection `json:"selection"`
}

// Service is the query/mutation facade over both stores.
type Service struct {
	walkers  WalkerStore
	animals  AnimalStore
	creator  AnimalCreator
	executor *Executor
	registry *Registry
	logger   *slog.Logger
}

// NewService wires the resolvers. A nil logger uses slog.Default().
func NewService(walkers WalkerStore, animals AnimalStore, creator AnimalCreator, config Config, logger *slog.Logger) *Service {
	config.validate()
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		walkers: walkers,
		animals: animals,
		creator: creator,
		logger:  logger,
	}
	s.registry = s.schema()
	s.executor = NewExecutor(s.registry, config.MaxConcurrency, logger)
	return s
}

// Registry returns the field dispatch table.
func (s *Service) Registry() *Registry {
	return s.registry
}

// ListWalkers returns every walker.
func (s *Service) ListWalkers(ctx context.Context) ([]model.Walker, error) {
	return s.walkers.FindAll(ctx)
}

// ListAnimals returns every animal.
func (s *Service) ListAnimals(ctx context.Context) ([]model.Animal, error) {
	return s.animals.FindAll(ctx)
}

// CreateWalker creates a walker with no animals.
func (s *Service) CreateWalker(ctx context.Context, name string) (model.Walker, error) {
	w, err := s.walkers.Insert(ctx, name)
	if err != nil {
		return model.Walker{}, err
	}
	s.logger.Info("walker created", "walkerID", w.ID.String())
	return w, nil
}

// CreateAnimal creates an animal and links it to walkerID when one is given.
// walkerID must be empty or a valid walker id; anything else is rejected
// before either store is touched.
func (s *Service) CreateAnimal(ctx context.Context, name, breed, walkerID string) (model.Animal, error) {
	var owner *model.WalkerID
	if walkerID != "" {
		id, err := model.ParseWalkerID(walkerID)
		if err != nil {
			return model.Animal{}, fmt.Errorf("%w: %w", model.ErrWriteRejected, err)
		}
		owner = &id
	}

	a, err := s.creator.CreateAnimal(ctx, name, breed, owner)
	if err != nil {
		return a, err
	}
	s.logger.Info("animal created", "animalID", a.ID)
	return a, nil
}

// DogsOf resolves the animals a walker references. A walker with no animal ids
// resolves to an empty slice without querying the relational store. The result
// follows the relational store's order, not the walker's list order.
func (s *Service) DogsOf(ctx context.Context, w model.Walker) ([]model.Animal, error) {
	if !w.HasAnimals() {
		return []model.Animal{}, nil
	}
	return s.animals.FindByIDs(ctx, w.AnimalIDs)
}

// WalkerOf resolves the walker whose id equals the animal's walker id.
// It returns nil, without error, when the animal has no walker or the walker
// does not exist.
func (s *Service) WalkerOf(ctx context.Context, a model.Animal) (*model.Walker, error) {
	if a.WalkerID == nil {
		return nil, nil
	}
	w, err := s.walkers.FindByID(ctx, *a.WalkerID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Execute runs a selection set as a query or mutation.
func (s *Service) Execute(ctx context.Context, req Request) Response {
	switch req.Operation {
	case OperationQuery, "":
		return s.executor.Execute(ctx, TypeQuery, req.Selection, false)
	case OperationMutation:
		return s.executor.Execute(ctx, TypeMutation, req.Selection, true)
	default:
		errs := &errorList{}
		errs.add(nil, invalidSelection("unknown operation %q", req.Operation))
		return Response{Data: map[string]any{}, Errors: errs.sorted()}
	}
}
