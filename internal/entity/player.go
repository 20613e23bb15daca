package entity

import "time"

// Player is a registered user, identified by a unique name.
type Player struct {
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (that *Player) HasEmail() bool {
	return that.Email != ""
}
