package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// downMarker separates the up and down halves of a migration file.
const downMarker = "-- +migrate Down"

type Migration struct {
	Version     int
	Description string
	Up          string
	Down        string
}

// Conn is what the migrator needs: a pool or a single connection.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Migrator struct {
	conn       Conn
	migrations []Migration
}

// NewMigrator returns a migrator for the embedded migrations.
func NewMigrator(conn Conn) (*Migrator, error) {
	ms, err := LoadMigrations(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	return &Migrator{conn: conn, migrations: ms}, nil
}

// LoadMigrations reads NNN_description.sql files from dir, sorted by
// version.
func LoadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var ms []Migration
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m, err := parseMigration(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("migration version %d used by %s and %s", m.Version, prev, e.Name())
		}
		seen[m.Version] = e.Name()
		ms = append(ms, m)
	}

	sort.Slice(ms, func(i, j int) bool { return ms[i].Version < ms[j].Version })
	return ms, nil
}

func parseMigration(fsys fs.FS, name string) (Migration, error) {
	base := strings.TrimSuffix(path.Base(name), ".sql")
	num, desc, ok := strings.Cut(base, "_")
	if !ok {
		return Migration{}, fmt.Errorf("migration %s: name must be NNN_description.sql", name)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return Migration{}, fmt.Errorf("migration %s: bad version %q", name, num)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Migration{}, fmt.Errorf("read migration %s: %w", name, err)
	}
	up, down, _ := strings.Cut(string(data), downMarker)
	if strings.TrimSpace(up) == "" {
		return Migration{}, fmt.Errorf("migration %s: empty up section", name)
	}

	return Migration{
		Version:     version,
		Description: strings.ReplaceAll(desc, "_", " "),
		Up:          strings.TrimSpace(up),
		Down:        strings.TrimSpace(down),
	}, nil
}

// Migrations returns the known migrations in version order.
func (m *Migrator) Migrations() []Migration {
	return append([]Migration(nil), m.migrations...)
}

func (m *Migrator) CreateMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     integer PRIMARY KEY,
			description text NOT NULL,
			applied_at  timestamptz NOT NULL DEFAULT now()
		)
	`

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

func (m *Migrator) GetAppliedMigrations(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Query(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}

	return applied, rows.Err()
}

// ApplyMigration runs the up section and records it in one transaction.
func (m *Migrator) ApplyMigration(ctx context.Context, migration Migration) error {
	return pgx.BeginFunc(ctx, m.conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO schema_migrations (version, description)
			VALUES ($1, $2)
		`, migration.Version, migration.Description); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
}

// RollbackMigration runs the down section and removes the record.
func (m *Migrator) RollbackMigration(ctx context.Context, migration Migration) error {
	if migration.Down == "" {
		return fmt.Errorf("migration %d has no down section", migration.Version)
	}
	return pgx.BeginFunc(ctx, m.conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.Down); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec(ctx, "DELETE FROM schema_migrations WHERE version = $1", migration.Version); err != nil {
			return fmt.Errorf("failed to remove migration record %d: %w", migration.Version, err)
		}
		return nil
	})
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, migration := range m.migrations {
		if _, ok := applied[migration.Version]; ok {
			slog.Debug("migration already applied",
				"version", migration.Version,
				"description", migration.Description,
			)
			continue
		}

		slog.Info("applying migration",
			"version", migration.Version,
			"description", migration.Description,
		)
		if err := m.ApplyMigration(ctx, migration); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Down rolls back the newest steps applied migrations.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return 0, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for i := len(m.migrations) - 1; i >= 0 && n < steps; i-- {
		migration := m.migrations[i]
		if _, ok := applied[migration.Version]; !ok {
			continue
		}
		slog.Info("rolling back migration",
			"version", migration.Version,
			"description", migration.Description,
		)
		if err := m.RollbackMigration(ctx, migration); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// MigrationStatus is one line of Status.
type MigrationStatus struct {
	Migration
	AppliedAt *time.Time
}

// Status lists every migration with its applied time, if any.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.CreateMigrationsTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MigrationStatus, len(m.migrations))
	for i, migration := range m.migrations {
		out[i] = MigrationStatus{Migration: migration}
		if at, ok := applied[migration.Version]; ok {
			at := at
			out[i].AppliedAt = &at
		}
	}
	return out, nil
}
