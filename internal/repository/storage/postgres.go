package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// import the Postgres driver to register it with the database/sql package.
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	name       TEXT PRIMARY KEY,
	email      TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS scores (
	id          BIGSERIAL PRIMARY KEY,
	game_id     TEXT NOT NULL,
	player_name TEXT NOT NULL REFERENCES players (name),
	played_at   TIMESTAMPTZ NOT NULL,
	result      TEXT NOT NULL CHECK (result IN ('win', 'lose', 'tie')),
	UNIQUE (game_id, player_name)
);

CREATE INDEX IF NOT EXISTS scores_player_result_idx ON scores (player_name, result);
`

// NewPostgres opens a connection pool and checks the connection.
func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	conn.SetMaxOpenConns(16)
	conn.SetMaxIdleConns(8)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err = conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return conn, nil
}

// Migrate creates the tables used by the player and score repositories.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}
