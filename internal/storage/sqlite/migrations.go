package sqlite

import "github.com/jmoiron/sqlx"

// schema contains the SQL statements to set up the database. It runs on
// startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS event (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    event_type TEXT NOT NULL,
    from_name TEXT NOT NULL,
    to_names TEXT NOT NULL,
    amount INTEGER NOT NULL,
    comment TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS balance (
    name_a TEXT NOT NULL,
    name_b TEXT NOT NULL,
    debt INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (name_a, name_b)
);

CREATE TABLE IF NOT EXISTS baseball_session (
    user_id TEXT PRIMARY KEY,
    answer TEXT NOT NULL,
    trial INTEGER NOT NULL DEFAULT 0,
    log TEXT NOT NULL DEFAULT '[]',
    meta TEXT NOT NULL,
    started_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_event_from_name ON event(from_name);
`

// runMigrations executes the schema setup
func runMigrations(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	return err
}
