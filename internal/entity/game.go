package entity

import (
	"errors"
	"fmt"
	"time"
)

// Cell is the content of one board square.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellO
	CellX
)

const (
	MarkO = "O"
	MarkX = "X"

	EmptyCell = ""
)

// BoardSize is the number of cells on a tic-tac-toe board.
const BoardSize = 9

var ErrUnknownCell = errors.New("unknown cell value")

// WinCombos lists every row, column and diagonal of the board.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

func (that Cell) String() string {
	switch that {
	case CellO:
		return MarkO
	case CellX:
		return MarkX
	default:
		return EmptyCell
	}
}

func (that Cell) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case EmptyCell, " ":
		*that = CellEmpty
	case MarkO:
		*that = CellO
	case MarkX:
		*that = CellX
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCell, text)
	}

	return nil
}

// Board is a 3x3 grid stored row by row.
type Board [BoardSize]Cell

// HistoryEntry records one accepted move and the outcome it produced.
type HistoryEntry struct {
	Sequence int    `json:"sequence"`
	Player   string `json:"player"`
	Move     int    `json:"move"`
	Result   string `json:"result"`
}

// Game is a persisted match between two players. Player1 plays O, Player2 plays X.
type Game struct {
	ID        string         `json:"id"`
	Player1   string         `json:"player1"`
	Player2   string         `json:"player2"`
	NextTurn  string         `json:"next_turn"`
	Board     Board          `json:"board"`
	GameOver  bool           `json:"game_over"`
	Winner    string         `json:"winner,omitempty"`
	History   []HistoryEntry `json:"history"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewGame(id, player1, player2, firstTurn string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Player1:   player1,
		Player2:   player2,
		NextTurn:  firstTurn,
		History:   []HistoryEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkOf returns the cell a player places, or CellEmpty when the player is not in the game.
func (that *Game) MarkOf(player string) Cell {
	switch player {
	case that.Player1:
		return CellO
	case that.Player2:
		return CellX
	default:
		return CellEmpty
	}
}

// Opponent returns the other participant of the game.
func (that *Game) Opponent(player string) string {
	if player == that.Player1 {
		return that.Player2
	}
	return that.Player1
}

func (that *Game) HasPlayer(player string) bool {
	return player == that.Player1 || player == that.Player2
}

// Clone returns a copy that shares no mutable state with the receiver.
func (that *Game) Clone() *Game {
	clone := *that
	clone.History = make([]HistoryEntry, len(that.History))
	copy(clone.History, that.History)

	return &clone
}
