package tictactoe

import "github.com/rocketscienceinc/tictactoe-league/internal/entity"

// IsWinner reports whether mark fills any row, column or diagonal.
func IsWinner(board entity.Board, mark entity.Cell) bool {
	if mark == entity.CellEmpty {
		return false
	}

	for _, combo := range entity.WinCombos {
		if board[combo[0]] == mark && board[combo[1]] == mark && board[combo[2]] == mark {
			return true
		}
	}

	return false
}

// IsTie reports whether every cell is taken. Call it only after IsWinner
// returned false for the last mover: a full board with a line is a win.
func IsTie(board entity.Board) bool {
	for _, cell := range board {
		if cell == entity.CellEmpty {
			return false
		}
	}

	return true
}
