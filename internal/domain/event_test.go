package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin       = Actor{ID: 1, Email: "admin@vwp.local", Role: RoleAdmin}
	coordinator = Actor{ID: 2, Email: "coordinator@vwp.local", Role: RoleEventCoordinator}
	volunteer   = Actor{ID: 3, Email: "user@vwp.local", Role: RoleRegisteredUser}
)

func intPtr(v int) *int { return &v }

func newPendingEvent(t *testing.T, capacity *int) Event {
	t.Helper()

	e, err := NewEvent(volunteer, "Community Park Cleanup", "Join us to clean up the park.", "Goshen, NY",
		time.Date(2025, 10, 11, 10, 0, 0, 0, time.UTC), nil, capacity)
	require.NoError(t, err)

	return e
}

func TestNewEvent(t *testing.T) {
	start := time.Date(2025, 10, 11, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	tests := []struct {
		name     string
		title    string
		start    time.Time
		end      *time.Time
		capacity *int
		wantErr  error
	}{
		{name: "valid", title: "Coat Drive", start: start, capacity: intPtr(50)},
		{name: "unlimited capacity", title: "Coat Drive", start: start},
		{name: "blank title", title: "   ", start: start, wantErr: ErrTitleRequired},
		{name: "missing start", title: "Coat Drive", wantErr: ErrStartRequired},
		{name: "end before start", title: "Coat Drive", start: start, end: &before, wantErr: ErrEndBeforeStart},
		{name: "zero capacity", title: "Coat Drive", start: start, capacity: intPtr(0), wantErr: ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvent(volunteer, tt.title, "", "", tt.start, tt.end, tt.capacity)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, EventPending, e.Status)
			assert.Equal(t, volunteer.ID, e.CreatedBy)
		})
	}
}

func TestEvent_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    EventStatus
		apply   func(e *Event) error
		want    EventStatus
		wantErr error
	}{
		{name: "approve pending", from: EventPending, apply: func(e *Event) error { return e.Approve(admin) }, want: EventApproved},
		{name: "approve declined", from: EventDeclined, apply: func(e *Event) error { return e.Approve(admin) }, want: EventApproved},
		{name: "approve approved is a no-op", from: EventApproved, apply: func(e *Event) error { return e.Approve(admin) }, want: EventApproved},
		{name: "decline pending", from: EventPending, apply: func(e *Event) error { return e.Decline(admin) }, want: EventDeclined},
		{name: "decline approved", from: EventApproved, apply: func(e *Event) error { return e.Decline(admin) }, want: EventDeclined},
		{name: "coordinator cannot approve", from: EventPending, apply: func(e *Event) error { return e.Approve(coordinator) }, want: EventPending, wantErr: ErrInsufficientRole},
		{name: "creator cannot decline", from: EventPending, apply: func(e *Event) error { return e.Decline(volunteer) }, want: EventPending, wantErr: ErrInsufficientRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newPendingEvent(t, nil)
			e.Status = tt.from

			err := tt.apply(&e)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, e.Status)
		})
	}
}

func TestEvent_ApplyEdit_StatusControl(t *testing.T) {
	approved := EventApproved

	t.Run("creator status is ignored", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		title := "Park Cleanup (moved)"

		err := e.ApplyEdit(volunteer, EventUpdate{Title: &title, Status: &approved})

		require.NoError(t, err)
		assert.Equal(t, EventPending, e.Status)
		assert.Equal(t, title, e.Title)
	})

	t.Run("admin status is honored", func(t *testing.T) {
		e := newPendingEvent(t, nil)

		err := e.ApplyEdit(admin, EventUpdate{Status: &approved})

		require.NoError(t, err)
		assert.Equal(t, EventApproved, e.Status)
	})

	t.Run("content edit keeps approval", func(t *testing.T) {
		e := newPendingEvent(t, intPtr(10))
		require.NoError(t, e.Approve(admin))
		location := "Middletown, NY"

		err := e.ApplyEdit(volunteer, EventUpdate{Location: &location, Capacity: intPtr(20)})

		require.NoError(t, err)
		assert.Equal(t, EventApproved, e.Status)
		assert.Equal(t, location, e.Location)
		assert.Equal(t, 20, *e.Capacity)
	})

	t.Run("invalid edit leaves event untouched", func(t *testing.T) {
		e := newPendingEvent(t, intPtr(10))
		blank := ""

		err := e.ApplyEdit(admin, EventUpdate{Title: &blank, Status: &approved})

		assert.ErrorIs(t, err, ErrTitleRequired)
		assert.Equal(t, "Community Park Cleanup", e.Title)
		assert.Equal(t, EventPending, e.Status)
	})

	t.Run("admin cannot move back to pending", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		require.NoError(t, e.Approve(admin))
		pending := EventPending

		err := e.ApplyEdit(admin, EventUpdate{Status: &pending})

		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, EventApproved, e.Status)
	})

	t.Run("creator status is never parsed", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		bogus := EventStatus("bogus")
		location := "Riverside"

		err := e.ApplyEdit(volunteer, EventUpdate{Location: &location, Status: &bogus})

		require.NoError(t, err)
		assert.Equal(t, EventPending, e.Status)
		assert.Equal(t, location, e.Location)
	})

	t.Run("admin status is case insensitive", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		mixed := EventStatus("Approved")

		require.NoError(t, e.ApplyEdit(admin, EventUpdate{Status: &mixed}))
		assert.Equal(t, EventApproved, e.Status)
	})

	t.Run("admin unknown status is rejected", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		bogus := EventStatus("bogus")

		err := e.ApplyEdit(admin, EventUpdate{Status: &bogus})

		assert.ErrorIs(t, err, ErrUnknownStatus)
		assert.Equal(t, EventPending, e.Status)
	})

	t.Run("created_by is immutable", func(t *testing.T) {
		e := newPendingEvent(t, nil)
		title := "Renamed"

		require.NoError(t, e.ApplyEdit(admin, EventUpdate{Title: &title}))
		assert.Equal(t, volunteer.ID, e.CreatedBy)
	})
}

func TestEvent_Admit(t *testing.T) {
	tests := []struct {
		name      string
		status    EventStatus
		capacity  *int
		occupancy int
		wantErr   error
	}{
		{name: "room left", status: EventApproved, capacity: intPtr(2), occupancy: 1},
		{name: "unlimited", status: EventApproved, occupancy: 1000},
		{name: "full", status: EventApproved, capacity: intPtr(2), occupancy: 2, wantErr: ErrAtCapacity},
		{name: "over full", status: EventApproved, capacity: intPtr(2), occupancy: 3, wantErr: ErrAtCapacity},
		{name: "pending", status: EventPending, capacity: intPtr(2), wantErr: ErrEventNotOpen},
		{name: "declined", status: EventDeclined, wantErr: ErrEventNotOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{Status: tt.status, Capacity: tt.capacity}

			err := e.Admit(tt.occupancy)

			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEvent_FitsOccupancy(t *testing.T) {
	e := Event{Status: EventApproved, Capacity: intPtr(3)}

	assert.NoError(t, e.FitsOccupancy(3))
	assert.NoError(t, e.FitsOccupancy(0))
	assert.ErrorIs(t, e.FitsOccupancy(4), ErrInvalidCapacity)

	e.Capacity = nil
	assert.NoError(t, e.FitsOccupancy(500))
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	_, err := ParseRole("Superuser")
	assert.Error(t, err)
}
