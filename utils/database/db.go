package database

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the hive database and brings the schema up to date.
func Init(dbPath string) (*sqlx.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to hive database: %w", err)
	}

	// Single writer connection: sqlite serializes writes anyway, and a pool
	// of connections against ":memory:" would each see a different database.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate hive database: %w", err)
	}

	return db, nil
}

type migration struct {
	Name string
	SQL  string
}

// Migrations run in order exactly once. A previously applied script whose
// hash no longer matches aborts startup rather than silently diverging.
var migrations = []migration{
	{
		Name: "001_init.sql",
		SQL: `
    CREATE TABLE IF NOT EXISTS battery_types (
        id INTEGER PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        capacity_minutes INTEGER NOT NULL,
        recharge_minutes INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS drones (
        discord_id TEXT PRIMARY KEY,
        drone_id TEXT NOT NULL UNIQUE,
        optimized BOOLEAN NOT NULL DEFAULT 0,
        glitched BOOLEAN NOT NULL DEFAULT 0,
        id_prepending BOOLEAN NOT NULL DEFAULT 0,
        identity_enforced BOOLEAN NOT NULL DEFAULT 0,
        third_person_enforced BOOLEAN NOT NULL DEFAULT 0,
        battery_powered BOOLEAN NOT NULL DEFAULT 0,
        battery_minutes INTEGER NOT NULL DEFAULT 480,
        battery_type_id INTEGER NOT NULL DEFAULT 2 REFERENCES battery_types(id),
        can_self_configure BOOLEAN NOT NULL DEFAULT 1,
        trusted_users TEXT NOT NULL DEFAULT '',
        controlled_flags TEXT NOT NULL DEFAULT '',
        free_storage BOOLEAN NOT NULL DEFAULT 0,
        temporary_until DATETIME,
        associate_name TEXT NOT NULL DEFAULT ''
    );

    CREATE TABLE IF NOT EXISTS timers (
        id TEXT PRIMARY KEY,
        discord_id TEXT NOT NULL,
        flag TEXT NOT NULL,
        expires_at DATETIME NOT NULL,
        UNIQUE(discord_id, flag)
    );

    CREATE TABLE IF NOT EXISTS storage (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        initiator_id TEXT,
        target_id TEXT NOT NULL UNIQUE,
        purpose TEXT NOT NULL,
        roles TEXT NOT NULL DEFAULT '',
        release_at DATETIME NOT NULL
    );`,
	},
	{
		Name: "002_seed_battery_types.sql",
		SQL: `
    INSERT OR IGNORE INTO battery_types (id, name, capacity_minutes, recharge_minutes) VALUES
        (1, 'Low Capacity', 240, 60),
        (2, 'Medium Capacity', 480, 120),
        (3, 'High Capacity', 720, 180);`,
	},
}

func applyMigrations(db *sqlx.DB) error {
	_, err := db.Exec(`
    CREATE TABLE IF NOT EXISTS schema_migrations (
        filename TEXT PRIMARY KEY,
        hash TEXT NOT NULL,
        applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
    );`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		hash := sha256.Sum256([]byte(m.SQL))
		want := hex.EncodeToString(hash[:])

		var have string
		err := db.Get(&have, "SELECT hash FROM schema_migrations WHERE filename = ?", m.Name)
		switch {
		case err == nil:
			if have != want {
				return fmt.Errorf("migration %s was applied with a different hash", m.Name)
			}
			continue
		case err != sql.ErrNoRows:
			return fmt.Errorf("failed to check migration %s: %w", m.Name, err)
		}

		if err := WithTx(db, func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (filename, hash) VALUES (?, ?)", m.Name, want)
			return err
		}); err != nil {
			return err
		}
	}

	return nil
}
