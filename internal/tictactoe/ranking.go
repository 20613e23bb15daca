package tictactoe

// WinRate is the share of games won, counting a tie as half a win.
// At least one game is required; a zero total is a caller bug and panics.
func WinRate(wins, losses, ties int) float64 {
	total := wins + losses + ties
	if total <= 0 {
		panic("tictactoe: win rate of a player without games")
	}

	return (float64(wins) + float64(ties)/2) / float64(total)
}
