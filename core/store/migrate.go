package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// Migrations returns the schema history for the entity store. Entities are
// stored as JSON documents with a handful of indexed columns pulled out for
// the queries the dashboard and pipeline need.
func Migrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "initial collections",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS users (
						id TEXT PRIMARY KEY,
						email TEXT NOT NULL UNIQUE,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);

					CREATE TABLE IF NOT EXISTS clients (
						id TEXT PRIMARY KEY,
						email TEXT NOT NULL,
						owner_id TEXT NOT NULL,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_clients_email ON clients(email);

					CREATE TABLE IF NOT EXISTS projects (
						id TEXT PRIMARY KEY,
						client_id TEXT NOT NULL,
						status TEXT NOT NULL,
						budget REAL,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

					CREATE TABLE IF NOT EXISTS contracts (
						id TEXT PRIMARY KEY,
						project_id TEXT NOT NULL,
						status TEXT NOT NULL,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_contracts_project ON contracts(project_id);

					CREATE TABLE IF NOT EXISTS invoices (
						id TEXT PRIMARY KEY,
						project_id TEXT NOT NULL,
						status TEXT NOT NULL,
						due_date INTEGER NOT NULL,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_invoices_project ON invoices(project_id);
					CREATE INDEX IF NOT EXISTS idx_invoices_status ON invoices(status);

					CREATE TABLE IF NOT EXISTS agent_events (
						id TEXT PRIMARY KEY,
						trace_id TEXT NOT NULL,
						kind TEXT NOT NULL,
						entity_type TEXT NOT NULL,
						entity_id TEXT NOT NULL,
						payload TEXT NOT NULL,
						created_at INTEGER NOT NULL
					);
					CREATE INDEX IF NOT EXISTS idx_agent_events_created ON agent_events(created_at);
					CREATE INDEX IF NOT EXISTS idx_agent_events_trace ON agent_events(trace_id);
				`)
				return err
			},
		},
	}
}

type Migrator struct {
	pool       *Pool
	migrations []Migration
}

func NewMigrator(pool *Pool, migrations []Migration) *Migrator {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	return &Migrator{
		pool:       pool,
		migrations: sorted,
	}
}

func (m *Migrator) Migrate(ctx context.Context) error {
	currentVersion, err := m.pool.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		if err := m.applyMigration(ctx, migration); err != nil {
			return fmt.Errorf("migration %d (%s): %w", migration.Version, migration.Description, err)
		}
	}

	return nil
}

func (m *Migrator) applyMigration(ctx context.Context, migration Migration) error {
	return m.pool.Transaction(ctx, func(tx *sql.Tx) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		_, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version))
		return err
	})
}

func (m *Migrator) CurrentVersion() (int, error) {
	return m.pool.Version()
}
