// Package sqlitetest opens an in-memory SQLite database carrying the same
// tables as the Postgres migrations, for repository and service tests.
package sqlitetest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/GermanDelima/verdeScan/internal/repository"
)

const schema = `
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		neighborhood TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		points INTEGER NOT NULL DEFAULT 0 CHECK (points >= 0),
		total_earned_points INTEGER NOT NULL DEFAULT 0,
		accumulated_weight_grams INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE material_points_config (
		material_type TEXT PRIMARY KEY,
		points_per_unit NUMERIC NOT NULL,
		unit_description TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE user_virtual_bin (
		user_id TEXT NOT NULL REFERENCES users(id),
		material_type TEXT NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		last_scanned_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, material_type)
	);

	CREATE TABLE staff_accounts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		account_type TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_by TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE recycling_tokens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		token_code TEXT NOT NULL UNIQUE,
		material_type TEXT NOT NULL,
		points_value INTEGER NOT NULL,
		quantity INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMP NOT NULL,
		expires_at TIMESTAMP NOT NULL,
		validated_at TIMESTAMP,
		validated_by TEXT,
		validation_location TEXT,
		bin_depleted_at TIMESTAMP
	);

	CREATE TABLE point_transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		amount INTEGER NOT NULL,
		source TEXT NOT NULL,
		description TEXT,
		reference_id TEXT,
		points_before INTEGER NOT NULL,
		points_after INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE products (
		barcode TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		weight_grams INTEGER NOT NULL,
		category TEXT NOT NULL,
		points_per_kg NUMERIC NOT NULL DEFAULT 50,
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE raffles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		prize TEXT NOT NULL,
		ticket_cost INTEGER NOT NULL,
		draw_date TIMESTAMP NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		category TEXT,
		sponsor TEXT,
		image_url TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE raffle_tickets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		raffle_id TEXT NOT NULL REFERENCES raffles(id),
		ticket_number TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE sube_exchanges (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		exchange_type TEXT NOT NULL,
		points_spent INTEGER NOT NULL,
		tickets INTEGER NOT NULL,
		sube_alias TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	INSERT INTO material_points_config (material_type, points_per_unit, unit_description) VALUES
		('avu', 10, 'litro'),
		('lata', 1, 'lata'),
		('botella', 1, 'botella');
`

// New returns a repository over a fresh in-memory database. The database is
// closed when the test ends.
func New(t testing.TB) *repository.Repository {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return repository.NewWithDB(db)
}
