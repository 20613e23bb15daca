package entity

// Ranking holds the latest win-rate of a player.
type Ranking struct {
	Player  string  `json:"user"`
	WinRate float64 `json:"winning_percent"`
}
