package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

// fakeEvents is an in-memory EventRepository.
type fakeEvents struct {
	mu       sync.Mutex
	nextID   uint
	events   map[uint]domain.Event
	onDelete func(id uint)
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{events: map[uint]domain.Event{}}
}

func (f *fakeEvents) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	event.ID = f.nextID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEvents) FindByID(_ context.Context, id uint) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEvents) ListByStatus(_ context.Context, status domain.EventStatus) ([]domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var events []domain.Event
	for _, e := range f.events {
		if status == "" || e.Status == status {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartDatetime.Equal(events[j].StartDatetime) {
			return events[i].StartDatetime.After(events[j].StartDatetime)
		}
		return events[i].ID > events[j].ID
	})
	return events, nil
}

func (f *fakeEvents) Update(_ context.Context, id uint, fn func(event *domain.Event) error) (domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	createdBy := event.CreatedBy
	if err := fn(&event); err != nil {
		return domain.Event{}, err
	}
	event.ID = id
	event.CreatedBy = createdBy
	event.UpdatedAt = time.Now()
	f.events[id] = event
	return event, nil
}

func (f *fakeEvents) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	if _, ok := f.events[id]; !ok {
		f.mu.Unlock()
		return domain.ErrEventNotFound
	}
	delete(f.events, id)
	f.mu.Unlock()

	if f.onDelete != nil {
		f.onDelete(id)
	}
	return nil
}

// seed stores event as is and returns it with its id.
func (f *fakeEvents) seed(event domain.Event) domain.Event {
	created, _ := f.Create(context.Background(), event)
	return created
}

// fakeSignups is an in-memory SignupRepository. Its Admit deliberately reads
// the occupancy and inserts in two separate critical sections with a pause in
// between, so only the caller's own serialization keeps it from overbooking.
type fakeSignups struct {
	events *fakeEvents

	mu     sync.Mutex
	nextID uint
	rows   []domain.RosterEntry
	window time.Duration
	fail   error
}

func newFakeSignups(events *fakeEvents) *fakeSignups {
	f := &fakeSignups{events: events, window: time.Millisecond}
	events.onDelete = f.deleteEvent
	return f
}

func (f *fakeSignups) Admit(ctx context.Context, eventID, userID uint, admit func(event domain.Event, occupancy int) error) (domain.Signup, int, error) {
	if f.fail != nil {
		return domain.Signup{}, 0, f.fail
	}

	event, err := f.events.FindByID(ctx, eventID)
	if err != nil {
		return domain.Signup{}, 0, err
	}

	occupancy, _ := f.Count(ctx, eventID)
	if err = admit(event, occupancy); err != nil {
		return domain.Signup{}, 0, err
	}

	time.Sleep(f.window)

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			return domain.Signup{}, 0, domain.ErrAlreadySignedUp
		}
	}

	f.nextID++
	signup := domain.Signup{ID: f.nextID, EventID: eventID, UserID: userID, CreatedAt: time.Now()}
	f.rows = append(f.rows, domain.RosterEntry{Signup: signup})
	return signup, occupancy + 1, nil
}

func (f *fakeSignups) Delete(_ context.Context, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSignups) Count(_ context.Context, eventID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, row := range f.rows {
		if row.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSignups) Exists(_ context.Context, eventID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, row := range f.rows {
		if row.EventID == eventID && row.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSignups) ListRoster(_ context.Context, eventID uint) ([]domain.RosterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var roster []domain.RosterEntry
	for _, row := range f.rows {
		if row.EventID == eventID {
			roster = append(roster, row)
		}
	}
	return roster, nil
}

func (f *fakeSignups) deleteEvent(eventID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.rows[:0]
	for _, row := range f.rows {
		if row.EventID != eventID {
			kept = append(kept, row)
		}
	}
	f.rows = kept
}

type recordingPublisher struct {
	mu      sync.Mutex
	changes []domain.RosterChange
}

func (p *recordingPublisher) Publish(change domain.RosterChange) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, change)
}

func (p *recordingPublisher) all() []domain.RosterChange {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.RosterChange(nil), p.changes...)
}

type fakeUsers struct {
	mu     sync.Mutex
	nextID uint
	users  map[string]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, domain.ErrUserEmailExists
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

type fakeComments struct {
	mu       sync.Mutex
	nextID   uint
	comments []domain.Comment
}

func (f *fakeComments) Create(_ context.Context, comment domain.Comment) (domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	comment.ID = f.nextID
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeComments) ListByEvent(_ context.Context, eventID uint) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var comments []domain.Comment
	for _, c := range f.comments {
		if c.EventID == eventID {
			comments = append(comments, c)
		}
	}
	return comments, nil
}

func (f *fakeComments) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrCommentNotFound
}

type fakeAttendance struct {
	mu      sync.Mutex
	records map[[2]uint]domain.Attendance
}

func newFakeAttendance() *fakeAttendance {
	return &fakeAttendance{records: map[[2]uint]domain.Attendance{}}
}

func (f *fakeAttendance) Mark(_ context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := [2]uint{attendance.EventID, attendance.UserID}
	if existing, ok := f.records[key]; ok {
		attendance.ID = existing.ID
	} else {
		attendance.ID = uint(len(f.records) + 1)
	}
	f.records[key] = attendance
	return attendance, nil
}

func (f *fakeAttendance) ListByEvent(_ context.Context, eventID uint) ([]domain.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var records []domain.Attendance
	for key, record := range f.records {
		if key[0] == eventID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })
	return records, nil
}

func intPtr(v int) *int {
	return &v
}

var (
	admin       = domain.Actor{ID: 1, Email: "admin@vwp.local", Role: domain.RoleAdmin}
	coordinator = domain.Actor{ID: 2, Email: "coord@vwp.local", Role: domain.RoleEventCoordinator}
	creator     = domain.Actor{ID: 3, Email: "creator@vwp.local", Role: domain.RoleRegisteredUser}
	volunteer   = domain.Actor{ID: 4, Email: "volunteer@vwp.local", Role: domain.RoleRegisteredUser}
)

func approvedEvent(capacity *int) domain.Event {
	return domain.Event{
		Title:         "Beach Cleanup",
		StartDatetime: time.Now().Add(48 * time.Hour),
		Capacity:      capacity,
		Status:        domain.EventApproved,
		CreatedBy:     creator.ID,
	}
}
