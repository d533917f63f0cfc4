package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/pkg/logger"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL database behind a DB
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

const defaultSQLitePath = "alumni.db"

// DB wraps a database/sql handle together with its dialect
type DB struct {
	*sql.DB
	Dialect Dialect
	pool    *pgxpool.Pool
}

// ParseURL resolves a DATABASE_URL into a dialect and a driver DSN.
// postgres:// and postgresql:// select PostgreSQL; sqlite URLs, bare paths and
// the empty string select SQLite.
func ParseURL(raw string) (Dialect, string) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Postgres, raw
	case strings.HasPrefix(raw, "sqlite:///"):
		raw = strings.TrimPrefix(raw, "sqlite:///")
	case strings.HasPrefix(raw, "sqlite://"):
		raw = strings.TrimPrefix(raw, "sqlite://")
	}
	if raw == "" {
		raw = defaultSQLitePath
	}
	return SQLite, raw
}

// Open connects to the database configured in cfg
func Open(cfg *config.Config) (*DB, error) {
	dialect, dsn := ParseURL(cfg.Database.URL)
	if dialect == Postgres {
		return openPostgres(cfg, dsn)
	}
	return OpenSQLite(dsn)
}

// OpenSQLite opens (creating if needed) a SQLite database file
func OpenSQLite(path string) (*DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY under load
	sqlDB.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &DB{DB: sqlDB, Dialect: SQLite}, nil
}

func openPostgres(cfg *config.Config, connString string) (*DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			logger.Warn().Err(err).Msg("Unhealthy connection detected")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return &DB{DB: stdlib.OpenDBFromPool(pool), Dialect: Postgres, pool: pool}, nil
}

// Builder returns a squirrel statement builder using the dialect's placeholders
func (d *DB) Builder() sq.StatementBuilderType {
	if d.Dialect == Postgres {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// MonthExpr returns an expression that buckets a timestamp column into "YYYY-MM"
func (d *DB) MonthExpr(column string) string {
	if d.Dialect == Postgres {
		return fmt.Sprintf("to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM')", column)
	}
	return fmt.Sprintf("substr(%s, 1, 7)", column)
}

// Close releases the database handle and, for PostgreSQL, the pool behind it
func (d *DB) Close() error {
	err := d.DB.Close()
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

// Now returns the current UTC time at second precision, the resolution stored in both dialects
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// TransactionFn is a function that executes within a transaction
type TransactionFn func(ctx context.Context, tx *sql.Tx) error

// WithTransaction runs a function within a transaction
func (d *DB) WithTransaction(ctx context.Context, fn TransactionFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
