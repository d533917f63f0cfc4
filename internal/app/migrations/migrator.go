package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationFS embed.FS

// Migrator manages database migrations
type Migrator struct {
	db *db.DB
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.DB) *Migrator {
	return &Migrator{db: database}
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	);`

	if _, err := m.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	query, args, err := m.db.Builder().
		Select("COUNT(*)").
		From("schema_migrations").
		Where("version = ?", version).
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// Up applies every embedded migration for the database dialect that has not run yet.
// It returns the versions applied by this call.
func (m *Migrator) Up(ctx context.Context) ([]string, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}

	dir := string(m.db.Dialect)
	entries, err := fs.ReadDir(migrationFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	var applied []string
	for _, file := range sqlFiles {
		ran, err := m.apply(ctx, path.Join(dir, file))
		if err != nil {
			return applied, err
		}
		if ran != "" {
			applied = append(applied, ran)
		}
	}
	return applied, nil
}

// apply executes one migration file inside a transaction. "001_init.sql" is tracked as "001".
func (m *Migrator) apply(ctx context.Context, filePath string) (string, error) {
	filename := path.Base(filePath)
	version := strings.Split(filename, "_")[0]

	done, err := m.isMigrationApplied(ctx, version)
	if err != nil {
		return "", err
	}
	if done {
		logger.Debug().Str("migration", filename).Msg("Migration already applied, skipping")
		return "", nil
	}

	content, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return "", fmt.Errorf("error occurred during SQL migration %s: %w", filename, err)
	}

	insert, args, err := m.db.Builder().
		Insert("schema_migrations").
		Columns("version", "applied_at").
		Values(version, db.Now()).
		ToSql()
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return "", fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Str("migration", filename).Str("dialect", string(m.db.Dialect)).Msg("Migration applied")
	return version, nil
}
