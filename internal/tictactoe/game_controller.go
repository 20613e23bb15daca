package tictactoe

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

type MoveStatus int

const (
	MoveRejected MoveStatus = iota
	MoveAccepted
	MoveWon
	MoveTied
)

const (
	MsgGameOver     = "Game already over!"
	MsgInvalidMove  = "Move should be from 0 to 8 only"
	MsgCellOccupied = "Position already taken."
	MsgTie          = "Tie!"
)

// MoveResult is the outcome of one move request: the resulting game, the message
// shown to the caller and the side effects the caller has to carry out.
type MoveResult struct {
	Game    *entity.Game
	Message string
	Status  MoveStatus

	Scores []entity.ScoreRecord
	Tasks  []entity.Task
}

func (that MoveResult) IsAccepted() bool {
	return that.Status != MoveRejected
}

func (that MoveResult) IsFinished() bool {
	return that.Status == MoveWon || that.Status == MoveTied
}

// MakeMove applies a move to a copy of game. The input game is never modified;
// rejected moves return the copy unchanged and do not grow the history.
func MakeMove(game *entity.Game, player string, cell int, now time.Time) MoveResult {
	next := game.Clone()

	if message, ok := validateMove(next, player, cell); !ok {
		return MoveResult{Game: next, Message: message, Status: MoveRejected}
	}

	mark := next.MarkOf(player)
	next.Board[cell] = mark
	next.UpdatedAt = now

	var result MoveResult

	switch {
	case IsWinner(next.Board, mark):
		next.GameOver = true
		next.Winner = player

		result = MoveResult{
			Message: WinMessage(player),
			Status:  MoveWon,
			Scores:  FinalScores(next),
			Tasks:   RankingTasks(next),
		}
	case IsTie(next.Board):
		next.GameOver = true

		result = MoveResult{
			Message: MsgTie,
			Status:  MoveTied,
			Scores:  FinalScores(next),
			Tasks:   RankingTasks(next),
		}
	default:
		next.NextTurn = next.Opponent(player)

		result = MoveResult{
			Message: TurnMessage(next.NextTurn),
			Status:  MoveAccepted,
			Tasks:   []entity.Task{entity.NewReminderTask(next.NextTurn, next.ID)},
		}
	}

	next.History = append(next.History, entity.HistoryEntry{
		Sequence: len(next.History) + 1,
		Player:   player,
		Move:     cell,
		Result:   result.Message,
	})
	result.Game = next

	return result
}

// FinalScores returns the two score records of a finished game, dated at its
// last move. It returns nil while the game is still running.
func FinalScores(game *entity.Game) []entity.ScoreRecord {
	if !game.GameOver {
		return nil
	}

	if game.Winner == "" {
		return []entity.ScoreRecord{
			{GameID: game.ID, Player: game.Player1, Date: game.UpdatedAt, Outcome: entity.OutcomeTie},
			{GameID: game.ID, Player: game.Player2, Date: game.UpdatedAt, Outcome: entity.OutcomeTie},
		}
	}

	return []entity.ScoreRecord{
		{GameID: game.ID, Player: game.Winner, Date: game.UpdatedAt, Outcome: entity.OutcomeWin},
		{GameID: game.ID, Player: game.Opponent(game.Winner), Date: game.UpdatedAt, Outcome: entity.OutcomeLose},
	}
}

// RankingTasks asks for a ranking recount of both players of a finished game.
func RankingTasks(game *entity.Game) []entity.Task {
	if !game.GameOver {
		return nil
	}

	return []entity.Task{
		entity.NewRankingTask(game.Player1),
		entity.NewRankingTask(game.Player2),
	}
}

// validateMove returns the rejection message of an unacceptable move.
func validateMove(game *entity.Game, player string, cell int) (string, bool) {
	if game.GameOver {
		return MsgGameOver, false
	}

	if game.NextTurn != player {
		return NotYourTurnMessage(game.NextTurn), false
	}

	if cell < 0 || cell >= entity.BoardSize {
		return MsgInvalidMove, false
	}

	if game.Board[cell] != entity.CellEmpty {
		return MsgCellOccupied, false
	}

	return "", true
}

func WinMessage(player string) string {
	return fmt.Sprintf("%s win!", player)
}

func TurnMessage(player string) string {
	return fmt.Sprintf("%s turn", player)
}

func NotYourTurnMessage(nextTurn string) string {
	return fmt.Sprintf("It is %s turn to play", nextTurn)
}
