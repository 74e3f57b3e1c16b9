package domain

import "time"

// Signup records that a user holds a place at an event. At most one exists
// per (EventID, UserID).
type Signup struct {
	ID        uint      `json:"id"`
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"signup_at"`
}

// RosterEntry is a signup joined with the volunteer's public profile.
type RosterEntry struct {
	Signup
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RosterChange is published whenever an event's roster changes.
type RosterChange struct {
	EventID   uint      `json:"event_id"`
	UserID    uint      `json:"user_id"`
	Kind      string    `json:"kind"`
	Occupancy int       `json:"occupancy"`
	At        time.Time `json:"at"`
}

const (
	RosterJoined = "joined"
	RosterLeft   = "left"
)
