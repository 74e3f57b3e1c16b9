package domain

import "time"

// Attendance is the record of whether a volunteer showed up, and for how long.
// There is one record per (EventID, UserID); marking again overwrites it.
type Attendance struct {
	ID       uint      `json:"id"`
	EventID  uint      `json:"event_id"`
	UserID   uint      `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Present  bool      `json:"present"`
	Hours    float64   `json:"hours"`
	MarkedBy uint      `json:"marked_by"`
	MarkedAt time.Time `json:"marked_at"`
}
