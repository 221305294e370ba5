package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"       // postgres driver
	_ "modernc.org/sqlite"      // pure Go SQLite driver
)

//go:embed schema.sql
var schema string

// Table identifies one of the two logical item tables
type Table string

// storage tables: social posts and generic articles
const (
	TableTweets Table = "tweets"
	TableRSS    Table = "rss"
)

// Tables lists every item table, in sweep order
var Tables = []Table{TableTweets, TableRSS}

// Dialect identifies the SQL backend
type Dialect string

// supported backends
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Store is the persistence gateway over either backend. The SQL shape is
// shared; placeholder syntax is rebound per dialect.
type Store struct {
	conn    *sqlx.DB
	dialect Dialect
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open opens a connection to the backend selected by the DSN: a postgres
// URL routes to the client-server backend, anything else (including an
// empty DSN) to the embedded file store.
func Open(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:birdfeed.db?cache=shared&mode=rwc"
	}

	dialect := DialectSQLite
	driver := "sqlite"
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		dialect = DialectPostgres
		driver = "postgres"
	}

	conn, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if dialect == DialectSQLite {
		pragmas := []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
			"PRAGMA temp_store = MEMORY",
		}
		for _, pragma := range pragmas {
			if _, err := conn.Exec(pragma); err != nil {
				return nil, fmt.Errorf("execute %s: %w", pragma, err)
			}
		}
	}

	s := &Store{conn: conn, dialect: dialect}

	if err := s.InitSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

// InitSchema creates the tables and indexes
func (s *Store) InitSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Dialect returns the active backend dialect
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Ping verifies the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// InTransaction executes a function within a database transaction
func (s *Store) InTransaction(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed: %w (rollback also failed: %s)", err, rbErr.Error())
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// validTable guards table names interpolated into SQL text
func validTable(table Table) error {
	for _, t := range Tables {
		if t == table {
			return nil
		}
	}
	return fmt.Errorf("unknown table %q", table)
}
