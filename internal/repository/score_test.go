package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
	"github.com/rocketscienceinc/tictactoe-league/testing/suite"
)

func TestScoreRepository(t *testing.T) {
	ctx, st := suite.NewWithPostgres(t)

	playerRepo := NewPlayerRepository(st.Postgres)
	scoreRepo := NewScoreRepository(st.Postgres)

	for _, name := range []string{"alice", "bob"} {
		require.NoError(t, playerRepo.Create(ctx, &entity.Player{Name: name, CreatedAt: time.Now()}))
	}

	finishedAt := time.Date(2024, 5, 1, 17, 42, 9, 0, time.UTC)

	// Given: two finished games, one win for alice and one tie
	require.NoError(t, scoreRepo.Add(ctx,
		entity.ScoreRecord{GameID: "g1", Player: "alice", Date: finishedAt, Outcome: entity.OutcomeWin},
		entity.ScoreRecord{GameID: "g1", Player: "bob", Date: finishedAt, Outcome: entity.OutcomeLose},
	))
	require.NoError(t, scoreRepo.Add(ctx,
		entity.ScoreRecord{GameID: "g2", Player: "alice", Date: finishedAt, Outcome: entity.OutcomeTie},
		entity.ScoreRecord{GameID: "g2", Player: "bob", Date: finishedAt, Outcome: entity.OutcomeTie},
	))

	t.Run("List", func(t *testing.T) {
		scores, err := scoreRepo.List(ctx)

		require.NoError(t, err)
		assert.Len(t, scores, 4)
	})

	t.Run("ListByPlayer keeps the full timestamp", func(t *testing.T) {
		scores, err := scoreRepo.ListByPlayer(ctx, "bob")

		require.NoError(t, err)
		require.Len(t, scores, 2)
		assert.Equal(t, entity.ScoreRecord{
			GameID: "g1", Player: "bob", Date: finishedAt, Outcome: entity.OutcomeLose,
		}, scores[0])
		assert.Equal(t, entity.OutcomeTie, scores[1].Outcome)
	})

	t.Run("CountByPlayer", func(t *testing.T) {
		tally, err := scoreRepo.CountByPlayer(ctx, "alice")

		require.NoError(t, err)
		assert.Equal(t, entity.ScoreTally{Wins: 1, Ties: 1}, tally)
	})

	t.Run("CountByPlayer without games", func(t *testing.T) {
		tally, err := scoreRepo.CountByPlayer(ctx, "carol")

		require.NoError(t, err)
		assert.Zero(t, tally.Total())
	})

	t.Run("Replaying a game's scores stores them once", func(t *testing.T) {
		// When: the records of g1 are written again
		err := scoreRepo.Add(ctx,
			entity.ScoreRecord{GameID: "g1", Player: "alice", Date: finishedAt, Outcome: entity.OutcomeWin},
			entity.ScoreRecord{GameID: "g1", Player: "bob", Date: finishedAt, Outcome: entity.OutcomeLose},
		)

		// Then: nothing is duplicated
		require.NoError(t, err)
		tally, err := scoreRepo.CountByPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, entity.ScoreTally{Wins: 1, Ties: 1}, tally)
	})

	t.Run("Add rolls back on unknown player", func(t *testing.T) {
		// When: one of the records references an unknown player
		err := scoreRepo.Add(ctx,
			entity.ScoreRecord{GameID: "g3", Player: "alice", Date: finishedAt, Outcome: entity.OutcomeWin},
			entity.ScoreRecord{GameID: "g3", Player: "ghost", Date: finishedAt, Outcome: entity.OutcomeLose},
		)

		// Then: nothing is stored
		require.Error(t, err)
		tally, err := scoreRepo.CountByPlayer(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, 1, tally.Wins)
	})
}
