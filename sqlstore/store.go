package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/jacentio/pawtrail/internal/metrics"
	"github.com/jacentio/pawtrail/model"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

const animalColumns = `id, name, breed, "walkerId"`

// Store reads and writes animals in a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
	metrics *metrics.Metrics
}

// Open connects using the dialect's driver and applies the schema.
// SQLite connections are capped at one so an in-memory database is shared by
// every query.
func Open(ctx context.Context, dialect Dialect, dsn string, m *metrics.Metrics) (*Store, error) {
	openMu.Lock()
	db, err := sqlOpen(dialect.Driver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", model.ErrStoreUnavailable, dialect.Name, err)
	}
	if dialect.Name == SQLite.Name {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", model.ErrStoreUnavailable, dialect.Name, err)
	}

	s := New(db, dialect, m)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already opened database. The schema is not applied.
func New(db *sql.DB, dialect Dialect, m *metrics.Metrics) *Store {
	return &Store{db: db, dialect: dialect, metrics: m}
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the SQL dialect in use.
func (s *Store) Dialect() Dialect { return s.dialect }

func (s *Store) observe(op string, err error) {
	s.metrics.Observe(metrics.StoreRelational, op, err)
}

// Migrate creates the animals table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	stmts, err := s.dialect.statements()
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: execute ddl: %w", model.ErrStoreUnavailable, err)
		}
	}
	return nil
}

// FindAll returns every animal ordered by id.
func (s *Store) FindAll(ctx context.Context) ([]model.Animal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+animalColumns+` FROM animals ORDER BY id`)
	animals, err := collect(rows, err)
	s.observe("find_all", err)
	if err != nil {
		return nil, mapError("select animals", err)
	}
	return animals, nil
}

// FindByIDs returns the animals whose id is in ids, ordered by id.
// An empty ids slice returns an empty result without querying the database.
// Ids with no matching row are skipped.
func (s *Store) FindByIDs(ctx context.Context, ids []int64) ([]model.Animal, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return []model.Animal{}, nil
	}

	args := make([]any, len(unique))
	for i, id := range unique {
		args[i] = id
	}
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id IN (` +
		s.dialect.placeholders(1, len(unique)) + `) ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	animals, err := collect(rows, err)
	s.observe("find_by_ids", err)
	if err != nil {
		return nil, mapError("select animals by id", err)
	}
	return animals, nil
}

// Insert creates an animal row and returns it with its generated id.
// A breed longer than model.MaxBreedLength is rejected by the schema.
func (s *Store) Insert(ctx context.Context, name, breed string, walkerID *model.WalkerID) (model.Animal, error) {
	var walker sql.NullString
	if walkerID != nil {
		walker = sql.NullString{String: walkerID.String(), Valid: true}
	}

	query := `INSERT INTO animals (name, breed, "walkerId") VALUES (` +
		s.dialect.placeholders(1, 3) + `) RETURNING id`

	var id int64
	err := s.db.QueryRowContext(ctx, query, name, breed, walker).Scan(&id)
	s.observe("insert", err)
	if err != nil {
		return model.Animal{}, mapError("insert animal", err)
	}

	return model.Animal{ID: id, Name: name, Breed: breed, WalkerID: walkerID}, nil
}

// collect scans animal rows and closes them.
func collect(rows *sql.Rows, err error) ([]model.Animal, error) {
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	animals := []model.Animal{}
	for rows.Next() {
		var (
			a      model.Animal
			walker sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Name, &a.Breed, &walker); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if walker.Valid {
			id, err := model.ParseWalkerID(walker.String)
			if err != nil {
				return nil, fmt.Errorf("animal %d: corrupt walker id: %v", a.ID, err)
			}
			a.WalkerID = &id
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return animals, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
