package entity

const (
	TaskSendReminder  = "send_reminder"
	TaskUpdateRanking = "update_ranking"

	// TaskSweepReminders asks for a reminder to every player whose turn it is.
	TaskSweepReminders = "sweep_reminders"

	// TaskSettleScores asks for the scores of finished games that were not recorded yet.
	TaskSettleScores = "settle_scores"
)

const (
	ParamPlayer = "player"
	ParamGameID = "game_id"
)

// Task is a request for background work emitted by the game logic.
type Task struct {
	Name   string            `json:"name"`
	Params map[string]string `json:"params"`
}

func NewReminderTask(player, gameID string) Task {
	return Task{
		Name:   TaskSendReminder,
		Params: map[string]string{ParamPlayer: player, ParamGameID: gameID},
	}
}

func NewRankingTask(player string) Task {
	return Task{
		Name:   TaskUpdateRanking,
		Params: map[string]string{ParamPlayer: player},
	}
}
