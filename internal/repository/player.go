package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-league/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

type PlayerRepository interface {
	Create(ctx context.Context, player *entity.Player) error
	GetByName(ctx context.Context, name string) (*entity.Player, error)
}

type dbPlayer struct {
	conn *sql.DB
}

func NewPlayerRepository(conn *sql.DB) PlayerRepository {
	return &dbPlayer{
		conn: conn,
	}
}

// Create stores a new player; names are unique.
func (that *dbPlayer) Create(ctx context.Context, player *entity.Player) error {
	const query = `
		INSERT INTO players (name, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING`

	result, err := that.conn.ExecContext(ctx, query, player.Name, player.Email, player.CreatedAt)
	if err != nil {
		return fmt.Errorf("can't save player: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("can't save player: %w", err)
	}

	if inserted == 0 {
		return apperror.ErrPlayerExists
	}

	return nil
}

func (that *dbPlayer) GetByName(ctx context.Context, name string) (*entity.Player, error) {
	const query = `SELECT name, email, created_at FROM players WHERE name = $1`

	var player entity.Player

	err := that.conn.QueryRowContext(ctx, query, name).Scan(&player.Name, &player.Email, &player.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("can't find player: %w", err)
	}

	return &player, nil
}
