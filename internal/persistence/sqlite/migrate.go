package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	script  string
}

// Ordered schema migrations. New changes append a new entry; applied versions
// are tracked in schema_migrations and never re-run.
var migrations = []migration{
	{
		version: 1,
		name:    "identity",
		script: `
			CREATE TABLE users (
				id            TEXT PRIMARY KEY,
				email         TEXT NOT NULL UNIQUE,
				name          TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				role          TEXT NOT NULL DEFAULT 'user',
				created_at    TEXT NOT NULL
			);
		`,
	},
	{
		version: 2,
		name:    "directory",
		script: `
			CREATE TABLE expos (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				region     TEXT NOT NULL DEFAULT '',
				industry   TEXT NOT NULL DEFAULT '',
				location   TEXT NOT NULL DEFAULT '',
				date       TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL
			);

			CREATE TABLE companies (
				id              TEXT PRIMARY KEY,
				expo_id         TEXT NOT NULL REFERENCES expos(id),
				name            TEXT NOT NULL,
				hq              TEXT NOT NULL DEFAULT '',
				revenue         REAL NOT NULL DEFAULT 0,
				booth           TEXT NOT NULL DEFAULT '',
				industry        TEXT NOT NULL DEFAULT '',
				shortlist_stage TEXT NOT NULL DEFAULT 'none',
				contacts        TEXT NOT NULL DEFAULT '[]',
				created_at      TEXT NOT NULL
			);

			CREATE INDEX idx_companies_expo ON companies(expo_id);
		`,
	},
	{
		version: 3,
		name:    "engagement",
		script: `
			CREATE TABLE shortlists (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL REFERENCES users(id),
				company_id TEXT NOT NULL REFERENCES companies(id),
				expo_id    TEXT NOT NULL REFERENCES expos(id),
				notes      TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				UNIQUE(user_id, company_id, expo_id)
			);

			CREATE TABLE networks (
				id             TEXT PRIMARY KEY,
				user_id        TEXT NOT NULL REFERENCES users(id),
				company_id     TEXT NOT NULL REFERENCES companies(id),
				expo_id        TEXT NOT NULL REFERENCES expos(id),
				contact_name   TEXT NOT NULL DEFAULT '',
				contact_role   TEXT NOT NULL DEFAULT '',
				status         TEXT NOT NULL DEFAULT '',
				meeting_type   TEXT NOT NULL DEFAULT '',
				scheduled_time TEXT NOT NULL DEFAULT '',
				notes          TEXT NOT NULL DEFAULT '',
				created_at     TEXT NOT NULL
			);

			CREATE TABLE expo_days (
				id           TEXT PRIMARY KEY,
				user_id      TEXT NOT NULL REFERENCES users(id),
				company_id   TEXT NOT NULL REFERENCES companies(id),
				expo_id      TEXT NOT NULL REFERENCES expos(id),
				time_slot    TEXT NOT NULL DEFAULT '',
				status       TEXT NOT NULL DEFAULT '',
				meeting_type TEXT NOT NULL DEFAULT '',
				booth        TEXT NOT NULL DEFAULT '',
				notes        TEXT NOT NULL DEFAULT '',
				created_at   TEXT NOT NULL
			);

			CREATE INDEX idx_shortlists_user ON shortlists(user_id);
			CREATE INDEX idx_networks_user ON networks(user_id);
			CREATE INDEX idx_expo_days_user ON expo_days(user_id);
		`,
	},
	{
		version: 4,
		name:    "planner",
		script: `
			CREATE TABLE exhibitors (
				id         TEXT PRIMARY KEY,
				expo_id    TEXT NOT NULL,
				company    TEXT NOT NULL,
				hq         TEXT NOT NULL DEFAULT '',
				revenue    REAL NOT NULL DEFAULT 0,
				booth      TEXT NOT NULL DEFAULT '',
				industry   TEXT NOT NULL DEFAULT '',
				solutions  TEXT NOT NULL DEFAULT '[]',
				created_at TEXT NOT NULL
			);

			CREATE TABLE exhibitor_lists (
				id            TEXT PRIMARY KEY,
				user_id       TEXT NOT NULL,
				expo_id       TEXT NOT NULL,
				name          TEXT NOT NULL,
				exhibitor_ids TEXT NOT NULL DEFAULT '[]',
				created_at    TEXT NOT NULL
			);

			CREATE TABLE agendas (
				id         TEXT PRIMARY KEY,
				user_id    TEXT NOT NULL,
				expo_id    TEXT NOT NULL,
				created_at TEXT NOT NULL
			);

			CREATE TABLE meetings (
				id           TEXT PRIMARY KEY,
				agenda_id    TEXT NOT NULL REFERENCES agendas(id) ON DELETE CASCADE,
				exhibitor_id TEXT NOT NULL DEFAULT '',
				time         TEXT NOT NULL DEFAULT '',
				agenda       TEXT NOT NULL DEFAULT '',
				status       TEXT NOT NULL DEFAULT 'scheduled',
				notes        TEXT NOT NULL DEFAULT '',
				visiting_card BLOB,
				voice_note    BLOB,
				transcript    TEXT,
				action_items  TEXT,
				checked_in    INTEGER NOT NULL DEFAULT 0,
				created_at    TEXT NOT NULL
			);

			CREATE INDEX idx_exhibitors_expo ON exhibitors(expo_id);
			CREATE INDEX idx_meetings_agenda ON meetings(agenda_id);
		`,
	},
}

// Migrate applies any pending schema migrations in version order. It is safe
// to call on every startup.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	if _, err := pool.DB().ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := migrationApplied(ctx, pool, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.script); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.version, m.name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func migrationApplied(ctx context.Context, pool *ConnectionPool, version int) (bool, error) {
	var count int
	err := pool.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	return count > 0, nil
}
