package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/ledger-server/internal/config"
	"github.com/carson-networks/ledger-server/internal/storage/memory"
)

// Storage is the store handle passed to every component. Reads outside a
// unit of work go through Reader; mutations go through a Writer from Write.
type Storage struct {
	Reader *Reader

	begin func(ctx context.Context) (*Writer, error)
	ping  func(ctx context.Context) error
	close func() error
}

// Write opens a new unit of work.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	return s.begin(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// ConnectionString builds the lib/pq DSN from the config.
func ConnectionString(env *config.Config) string {
	return "postgres://" + env.PostgresUsername + ":" +
		env.PostgresPassword + "@" + env.PostgresAddress + ":" +
		env.PostgresPort + "/" + env.PostgresDB + "?sslmode=disable"
}

// NewStorage opens the backend selected by DATA_BACKEND.
func NewStorage(env *config.Config) (*Storage, error) {
	switch env.DataBackend {
	case config.BackendMemory:
		return NewMemoryStorage(memory.NewStore()), nil
	case config.BackendPostgres:
		return NewPostgresStorage(env)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", env.DataBackend)
	}
}

func NewPostgresStorage(env *config.Config) (*Storage, error) {
	db, err := sql.Open("postgres", ConnectionString(env))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	bobDB := bob.NewDB(db)

	return &Storage{
		Reader: NewReader(bobDB),
		begin: func(ctx context.Context) (*Writer, error) {
			tx, err := bobDB.BeginTx(ctx, nil)
			if err != nil {
				return nil, fmt.Errorf("begin transaction: %w", err)
			}
			return NewWriter(tx), nil
		},
		ping:  db.PingContext,
		close: db.Close,
	}, nil
}

// NewMemoryStorage wraps an in-process store. Used by the memory backend and tests.
func NewMemoryStorage(store *memory.Store) *Storage {
	view := store.Begin()
	return &Storage{
		Reader: &Reader{
			Transactions: view.Transactions(),
			Goals:        view.Goals(),
			Budgets:      view.Budgets(),
			Users:        view.Users(),
		},
		begin: func(_ context.Context) (*Writer, error) {
			tx := store.Begin()
			return &Writer{
				tx:           tx,
				Transactions: tx.Transactions(),
				Goals:        tx.Goals(),
				Budgets:      tx.Budgets(),
				Users:        tx.Users(),
			}, nil
		},
	}
}

