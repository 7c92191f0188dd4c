package db

import (
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    username TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS local_storage (
    origin INTEGER NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (origin, key)
);
`

const defaultSettings = `
INSERT OR IGNORE INTO settings (key, value) VALUES
    ('welcome_message', '🛡️ Welcome to TrustSphere! Learn to spot dark patterns, tracking and data breaches. Modules unlock in order.'),
    ('final_message', '🎉 You completed all three TrustSphere modules. Stay curious and read the fine print!'),
    ('locked_message', '🔒 Complete Module %d first to unlock this module.');
`

// Errors are ignored: the column already exists after the first run.
const migrations = `
ALTER TABLE users ADD COLUMN language_code TEXT DEFAULT '';
`

func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := db.Exec(defaultSettings); err != nil {
		return fmt.Errorf("seed settings: %w", err)
	}

	db.Exec(migrations)

	return nil
}
