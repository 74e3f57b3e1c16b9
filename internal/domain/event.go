package domain

import (
	"fmt"
	"strings"
	"time"
)

type EventStatus string

const (
	EventPending  EventStatus = "pending"
	EventApproved EventStatus = "approved"
	EventDeclined EventStatus = "declined"
)

func ParseEventStatus(s string) (EventStatus, error) {
	switch status := EventStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case EventPending, EventApproved, EventDeclined:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// transitions lists, for each target status, the states it may be entered from.
var transitions = map[EventStatus][]EventStatus{
	EventApproved: {EventPending, EventDeclined},
	EventDeclined: {EventPending, EventApproved},
}

type Event struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Location      string      `json:"location"`
	StartDatetime time.Time   `json:"start_datetime"`
	EndDatetime   *time.Time  `json:"end_datetime"`
	Capacity      *int        `json:"capacity"`
	Status        EventStatus `json:"status"`
	CreatedBy     uint        `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// EventDetail is an event together with its current occupancy.
type EventDetail struct {
	Event
	SignupCount int `json:"signup_count"`
}

// EventUpdate is a partial edit. Nil fields keep their current value.
type EventUpdate struct {
	Title         *string
	Description   *string
	Location      *string
	StartDatetime *time.Time
	EndDatetime   *time.Time
	Capacity      *int
	Status        *EventStatus
}

// NewEvent submits a new event on behalf of creator. Every event starts pending.
func NewEvent(creator Actor, title, description, location string, start time.Time, end *time.Time, capacity *int) (Event, error) {
	e := Event{
		Title:         strings.TrimSpace(title),
		Description:   description,
		Location:      location,
		StartDatetime: start,
		EndDatetime:   end,
		Capacity:      capacity,
		Status:        EventPending,
		CreatedBy:     creator.ID,
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}

	return e, nil
}

func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrTitleRequired
	}
	if e.StartDatetime.IsZero() {
		return ErrStartRequired
	}
	if e.EndDatetime != nil && e.EndDatetime.Before(e.StartDatetime) {
		return ErrEndBeforeStart
	}
	if e.Capacity != nil && *e.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}

func (e *Event) IsApproved() bool {
	return e.Status == EventApproved
}

func (e *Event) Approve(actor Actor) error {
	return e.transition(actor, EventApproved)
}

func (e *Event) Decline(actor Actor) error {
	return e.transition(actor, EventDeclined)
}

// transition moves the event to target. Re-entering the current state is a no-op.
func (e *Event) transition(actor Actor, target EventStatus) error {
	if !actor.IsAdmin() {
		return ErrInsufficientRole
	}
	if e.Status == target {
		return nil
	}

	for _, from := range transitions[target] {
		if e.Status == from {
			e.Status = target
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, target)
}

// ApplyEdit replaces the content fields present in upd. Content edits never
// touch the status; a status in upd is parsed and honored for admins only and
// silently dropped, unparsed, for anyone else.
func (e *Event) ApplyEdit(actor Actor, upd EventUpdate) error {
	next := *e

	if upd.Title != nil {
		next.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		next.Description = *upd.Description
	}
	if upd.Location != nil {
		next.Location = *upd.Location
	}
	if upd.StartDatetime != nil {
		next.StartDatetime = *upd.StartDatetime
	}
	if upd.EndDatetime != nil {
		end := *upd.EndDatetime
		next.EndDatetime = &end
	}
	if upd.Capacity != nil {
		capacity := *upd.Capacity
		next.Capacity = &capacity
	}
	if err := next.Validate(); err != nil {
		return err
	}

	if upd.Status != nil && actor.IsAdmin() {
		target, err := ParseEventStatus(string(*upd.Status))
		if err != nil {
			return err
		}
		if target != next.Status {
			if err = next.transition(actor, target); err != nil {
				return err
			}
		}
	}

	*e = next
	return nil
}

// FitsOccupancy reports ErrInvalidCapacity when the capacity is already
// below the number of signups held.
func (e *Event) FitsOccupancy(occupancy int) error {
	if e.Capacity != nil && occupancy > *e.Capacity {
		return fmt.Errorf("%w: %d signups already held", ErrInvalidCapacity, occupancy)
	}
	return nil
}

// Admit decides whether one more signup fits, given the current occupancy.
func (e *Event) Admit(occupancy int) error {
	if !e.IsApproved() {
		return ErrEventNotOpen
	}
	if e.Capacity != nil && occupancy >= *e.Capacity {
		return ErrAtCapacity
	}
	return nil
}
