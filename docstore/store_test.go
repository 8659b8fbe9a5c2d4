package docstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jacentio/pawtrail/docstore"
	"github.com/jacentio/pawtrail/internal/metrics"
	ptestutil "github.com/jacentio/pawtrail/internal/testutil"
	"github.com/jacentio/pawtrail/model"
)

func newStore(t *testing.T) (*docstore.Store, *ptestutil.FakeDynamo) {
	t.Helper()
	fake := ptestutil.NewFakeDynamo()
	return docstore.New(fake, docstore.DefaultConfig()), fake
}

func TestDefaultConfig(t *testing.T) {
	cfg := docstore.DefaultConfig()

	if cfg.TableName != "walkers" {
		t.Errorf("expected TableName 'walkers', got %q", cfg.TableName)
	}
	if cfg.PageSize != 100 {
		t.Errorf("expected PageSize 100, got %d", cfg.PageSize)
	}
	if !cfg.ConsistentRead {
		t.Error("expected ConsistentRead true")
	}
}

func TestNewStore(t *testing.T) {
	s := docstore.New(nil, docstore.Config{})
	if s == nil {
		t.Fatal("expected non-nil Store")
	}
	if s.TableName() != "walkers" {
		t.Errorf("expected default table name, got %q", s.TableName())
	}
}

func TestInsert(t *testing.T) {
	ctx := context.Background()
	s, fake := newStore(t)

	w, err := s.Insert(ctx, "Alice")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if w.Name != "Alice" {
		t.Errorf("expected name 'Alice', got %q", w.Name)
	}
	if _, err := model.ParseWalkerID(w.ID.String()); err != nil {
		t.Errorf("expected generated id to be valid: %v", err)
	}
	if w.AnimalIDs == nil || len(w.AnimalIDs) != 0 {
		t.Errorf("expected empty AnimalIDs, got %#v", w.AnimalIDs)
	}

	item := fake.Item(w.ID.String())
	if item == nil {
		t.Fatal("expected item to be stored")
	}
	if _, ok := item["created_at"].(*types.AttributeValueMemberS); !ok {
		t.Error("expected created_at to be set")
	}
}

func TestInsert_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	seen := map[model.WalkerID]bool{}
	for i := 0; i < 20; i++ {
		w, err := s.Insert(ctx, "walker")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if seen[w.ID] {
			t.Fatalf("duplicate id %q", w.ID)
		}
		seen[w.ID] = true
	}
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	created, err := s.Insert(ctx, "Alice")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ID != created.ID || got.Name != "Alice" {
		t.Errorf("expected %+v, got %+v", created, got)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.FindByID(context.Background(), model.NewWalkerID())
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindAll_Paginates(t *testing.T) {
	ctx := context.Background()
	fake := ptestutil.NewFakeDynamo()
	cfg := docstore.DefaultConfig()
	cfg.PageSize = 2
	s := docstore.New(fake, cfg)

	var names []string
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		if _, err := s.Insert(ctx, n); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		names = append(names, n)
	}

	walkers, err := s.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(walkers) != len(names) {
		t.Fatalf("expected %d walkers, got %d", len(names), len(walkers))
	}
	for i, w := range walkers {
		if w.Name != names[i] {
			t.Errorf("walker %d: expected %q, got %q", i, names[i], w.Name)
		}
	}
	if fake.Calls("Scan") != 3 {
		t.Errorf("expected 3 scan pages, got %d", fake.Calls("Scan"))
	}
}

func TestFindAll_Empty(t *testing.T) {
	s, _ := newStore(t)

	walkers, err := s.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if walkers == nil || len(walkers) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", walkers)
	}
}

func TestAppendAnimalID(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	w, err := s.Insert(ctx, "Alice")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	for _, id := range []int64{4, 2} {
		if err := s.AppendAnimalID(ctx, w.ID, id); err != nil {
			t.Fatalf("AppendAnimalID(%d): %v", id, err)
		}
	}

	got, err := s.FindByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if len(got.AnimalIDs) != 2 || got.AnimalIDs[0] != 4 || got.AnimalIDs[1] != 2 {
		t.Errorf("expected AnimalIDs [4 2], got %v", got.AnimalIDs)
	}
}

func TestAppendAnimalID_NotIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	w, _ := s.Insert(ctx, "Alice")
	_ = s.AppendAnimalID(ctx, w.ID, 7)
	_ = s.AppendAnimalID(ctx, w.ID, 7)

	got, _ := s.FindByID(ctx, w.ID)
	if len(got.AnimalIDs) != 2 {
		t.Errorf("expected duplicate append to store the id twice, got %v", got.AnimalIDs)
	}
}

func TestAppendAnimalID_MissingWalker(t *testing.T) {
	s, _ := newStore(t)

	err := s.AppendAnimalID(context.Background(), model.NewWalkerID(), 1)
	if !errors.Is(err, model.ErrWriteRejected) {
		t.Errorf("expected ErrWriteRejected, got %v", err)
	}
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound to be wrapped, got %v", err)
	}
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	tests := []struct {
		name string
		op   string
		call func(s *docstore.Store) error
	}{
		{"scan", "Scan", func(s *docstore.Store) error { _, err := s.FindAll(ctx); return err }},
		{"get", "GetItem", func(s *docstore.Store) error { _, err := s.FindByID(ctx, model.NewWalkerID()); return err }},
		{"put", "PutItem", func(s *docstore.Store) error { _, err := s.Insert(ctx, "x"); return err }},
		{"update", "UpdateItem", func(s *docstore.Store) error { return s.AppendAnimalID(ctx, model.NewWalkerID(), 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fake := newStore(t)
			fake.Fail = ptestutil.FailOn(tt.op, boom)

			err := tt.call(s)
			if !errors.Is(err, model.ErrStoreUnavailable) {
				t.Errorf("expected ErrStoreUnavailable, got %v", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("expected cause to be preserved, got %v", err)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := metrics.New(nil)
	s := docstore.NewWithMetrics(ptestutil.NewFakeDynamo(), docstore.DefaultConfig(), m)

	w, _ := s.Insert(ctx, "Alice")
	_, _ = s.FindByID(ctx, w.ID)
	_, _ = s.FindByID(ctx, w.ID)

	if got := testutil.ToFloat64(m.Calls.WithLabelValues(metrics.StoreDocument, "put", metrics.OutcomeOK)); got != 1 {
		t.Errorf("expected 1 put, got %v", got)
	}
	if got := testutil.ToFloat64(m.Calls.WithLabelValues(metrics.StoreDocument, "get", metrics.OutcomeOK)); got != 2 {
		t.Errorf("expected 2 gets, got %v", got)
	}
}
