package entity

import "time"

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
	OutcomeTie  Outcome = "tie"
)

func (that Outcome) IsValid() bool {
	switch that {
	case OutcomeWin, OutcomeLose, OutcomeTie:
		return true
	default:
		return false
	}
}

// ScoreRecord is one player's result in one finished game.
// GameID and Player identify the record, so writing it twice stores it once.
type ScoreRecord struct {
	GameID  string    `json:"game_id"`
	Player  string    `json:"user"`
	Date    time.Time `json:"date"`
	Outcome Outcome   `json:"result"`
}

// ScoreTally counts a player's results by outcome.
type ScoreTally struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

func (that ScoreTally) Total() int {
	return that.Wins + that.Losses + that.Ties
}

func (that *ScoreTally) Add(outcome Outcome, n int) {
	switch outcome {
	case OutcomeWin:
		that.Wins += n
	case OutcomeLose:
		that.Losses += n
	case OutcomeTie:
		that.Ties += n
	}
}
