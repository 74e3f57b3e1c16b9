package v1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/volunteer-api/internal/api/middleware"
	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/config"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/volunteer-api/internal/service"
)

const testSigningKey = "handler-test-key"

var (
	testAdmin     = domain.Actor{ID: 1, Email: "admin@vwp.local", Role: domain.RoleAdmin}
	testVolunteer = domain.Actor{ID: 4, Email: "volunteer@vwp.local", Role: domain.RoleRegisteredUser}
)

type fakeEventService struct {
	get    func(actor domain.Actor, id uint) (domain.EventDetail, error)
	create func(actor domain.Actor, in service.NewEventInput) (domain.Event, error)
	update func(actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error)
}

func (f *fakeEventService) ListApproved(context.Context, domain.Actor) ([]domain.Event, error) {
	return []domain.Event{{ID: 1, Title: "Beach Cleanup", Status: domain.EventApproved}}, nil
}

func (f *fakeEventService) ListAll(_ context.Context, actor domain.Actor) ([]domain.Event, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrInsufficientRole
	}
	return []domain.Event{{ID: 1}, {ID: 2, Status: domain.EventPending}}, nil
}

func (f *fakeEventService) Get(_ context.Context, actor domain.Actor, id uint) (domain.EventDetail, error) {
	return f.get(actor, id)
}

func (f *fakeEventService) Create(_ context.Context, actor domain.Actor, in service.NewEventInput) (domain.Event, error) {
	return f.create(actor, in)
}

func (f *fakeEventService) Update(_ context.Context, actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error) {
	return f.update(actor, id, upd)
}

func (f *fakeEventService) Approve(_ context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	if !actor.IsAdmin() {
		return domain.Event{}, domain.ErrInsufficientRole
	}
	return domain.Event{ID: id, Status: domain.EventApproved}, nil
}

func (f *fakeEventService) Decline(_ context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	return domain.Event{ID: id, Status: domain.EventDeclined}, nil
}

func (f *fakeEventService) Delete(context.Context, domain.Actor, uint) error {
	return nil
}

type fakeSignupService struct {
	signupErr error
	removed   bool
}

func (f *fakeSignupService) Signup(_ context.Context, actor domain.Actor, eventID uint) (domain.Signup, error) {
	if f.signupErr != nil {
		return domain.Signup{}, fmt.Errorf("s.repo.Admit -> %w", f.signupErr)
	}
	return domain.Signup{ID: 9, EventID: eventID, UserID: actor.ID}, nil
}

func (f *fakeSignupService) Withdraw(context.Context, domain.Actor, uint) (bool, error) {
	return f.removed, nil
}

func (f *fakeSignupService) ListSignups(context.Context, domain.Actor, uint) ([]domain.RosterEntry, error) {
	return nil, domain.ErrInsufficientRole
}

func (f *fakeSignupService) AuthorizeRoster(context.Context, domain.Actor, uint) error {
	return domain.ErrInsufficientRole
}

type fakeAuthService struct{}

func (fakeAuthService) Register(_ context.Context, user domain.User) (domain.User, error) {
	if user.Email == "taken@vwp.local" {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", domain.ErrUserEmailExists)
	}
	user.ID = 7
	user.Role = domain.RoleRegisteredUser
	return user, nil
}

func (fakeAuthService) Login(_ context.Context, email, password string) (domain.User, error) {
	if password != "Secret123" {
		return domain.User{}, domain.ErrWrongCredentials
	}
	return domain.User{ID: 7, Email: email, Role: domain.RoleRegisteredUser}, nil
}

type testServer struct {
	events  *fakeEventService
	signups *fakeSignupService
	router  *gin.Engine
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)

	ts := &testServer{
		events:  &fakeEventService{},
		signups: &fakeSignupService{},
		router:  gin.New(),
	}

	conf := &config.APIConfig{JWTSigningKey: testSigningKey, JWTTTL: time.Hour}
	authenticator := middleware.NewAuthenticator(testSigningKey)
	auth := NewAuthHandler(conf, fakeAuthService{})
	events := NewEventHandler(ts.events)
	signups := NewSignupHandler(ts.signups, nil)

	ts.router.POST("/auth/register", auth.HandleRegister)
	ts.router.POST("/auth/login", auth.HandleLogin)

	public := ts.router.Group("", authenticator.Identify())
	public.GET("/events", events.HandleListEvents)
	public.GET("/events/:eventID", events.HandleGetEvent)

	private := ts.router.Group("", authenticator.Identify(), authenticator.RequireLogin())
	private.GET("/events/all", events.HandleListAllEvents)
	private.POST("/events", events.HandleCreateEvent)
	private.PUT("/events/:eventID", events.HandleUpdateEvent)
	private.PUT("/events/:eventID/approve", events.HandleApproveEvent)
	private.POST("/events/:eventID/signup", signups.HandleSignup)
	private.DELETE("/events/:eventID/withdraw", signups.HandleWithdraw)
	private.GET("/events/:eventID/signups", signups.HandleListSignups)
	private.GET("/events/:eventID/signups/stream", signups.HandleRosterStream)

	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, actor *domain.Actor, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if actor != nil {
		token, err := jwthelper.GenerateToken([]byte(testSigningKey), *actor, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIdentity(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/events", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication required", decode(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/events/1/signup", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/events/all", &testVolunteer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/events/all", &testAdmin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGetEvent(t *testing.T) {
	ts := newTestServer()
	ts.events.get = func(_ domain.Actor, id uint) (domain.EventDetail, error) {
		if id != 1 {
			return domain.EventDetail{}, fmt.Errorf("s.repo.FindByID -> %w", domain.ErrEventNotFound)
		}
		return domain.EventDetail{Event: domain.Event{ID: 1, Status: domain.EventApproved}, SignupCount: 2}, nil
	}

	rec := ts.do(t, http.MethodGet, "/events/1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode(t, rec)["signup_count"])

	rec = ts.do(t, http.MethodGet, "/events/2", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "event not found", decode(t, rec)["error"])

	rec = ts.do(t, http.MethodGet, "/events/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateEvent(t *testing.T) {
	ts := newTestServer()
	ts.events.create = func(actor domain.Actor, in service.NewEventInput) (domain.Event, error) {
		return domain.Event{ID: 5, Title: in.Title, Capacity: in.Capacity, Status: domain.EventPending, CreatedBy: actor.ID}, nil
	}

	rec := ts.do(t, http.MethodPost, "/events", &testVolunteer,
		`{"title":"Food Drive","start_datetime":"2026-11-20T10:00:00Z","capacity":3}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.EqualValues(t, 5, body["event_id"])
	assert.NotEmpty(t, body["message"])

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"start_datetime":"2026-11-20T10:00:00Z"}`},
		{"missing start", `{"title":"Food Drive"}`},
		{"zero capacity", `{"title":"Food Drive","start_datetime":"2026-11-20T10:00:00Z","capacity":0}`},
		{"end before start", `{"title":"Food Drive","start_datetime":"2026-11-20T10:00:00Z","end_datetime":"2026-11-19T10:00:00Z"}`},
		{"malformed", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/events", &testVolunteer, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleUpdateEvent_PassesStatusThrough(t *testing.T) {
	ts := newTestServer()

	var got domain.EventUpdate
	ts.events.update = func(_ domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error) {
		got = upd
		return domain.Event{ID: id}, nil
	}

	rec := ts.do(t, http.MethodPut, "/events/3", &testVolunteer, `{"location":"Town Hall","status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.EventApproved, *got.Status)
	assert.Equal(t, "Town Hall", *got.Location)
	assert.Nil(t, got.Title)

	rec = ts.do(t, http.MethodPut, "/events/3", &testVolunteer, `{"status":"Archived"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.EventStatus("Archived"), *got.Status)

	rec = ts.do(t, http.MethodPut, "/events/3", &testVolunteer, `{"capacity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ts.events.update = func(domain.Actor, uint, domain.EventUpdate) (domain.Event, error) {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", domain.ErrNotOwner)
	}
	rec = ts.do(t, http.MethodPut, "/events/3", &testVolunteer, `{"location":"Town Hall"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

type memEvents struct {
	mu     sync.Mutex
	events map[uint]domain.Event
}

func (m *memEvents) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event.ID = uint(len(m.events) + 1)
	m.events[event.ID] = event
	return event, nil
}

func (m *memEvents) FindByID(_ context.Context, id uint) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return event, nil
}

func (m *memEvents) ListByStatus(context.Context, domain.EventStatus) ([]domain.Event, error) {
	return nil, nil
}

func (m *memEvents) Update(_ context.Context, id uint, fn func(event *domain.Event) error) (domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	if err := fn(&event); err != nil {
		return domain.Event{}, err
	}
	m.events[id] = event
	return event, nil
}

func (m *memEvents) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, id)
	return nil
}

func (m *memEvents) Count(context.Context, uint) (int, error) {
	return 0, nil
}

func TestHandleUpdateEvent_StatusHonoredForAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	owner := domain.Actor{ID: 5, Email: "owner@vwp.local", Role: domain.RoleRegisteredUser}
	store := &memEvents{events: map[uint]domain.Event{
		1: {ID: 1, Title: "Food Drive", StartDatetime: time.Date(2026, 11, 20, 10, 0, 0, 0, time.UTC),
			Status: domain.EventPending, CreatedBy: owner.ID},
	}}
	svc := service.NewEventService(store, store, authz.NewAuthorizer(authz.Policy{}))

	ts := newTestServer()
	ts.router = gin.New()
	authenticator := middleware.NewAuthenticator(testSigningKey)
	ts.router.PUT("/events/:eventID", authenticator.Identify(), authenticator.RequireLogin(), NewEventHandler(svc).HandleUpdateEvent)

	for _, status := range []string{"bogus", "Approved"} {
		rec := ts.do(t, http.MethodPut, "/events/1", &owner, `{"location":"Town Hall","status":"`+status+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, status)

		body := decode(t, rec)
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "Town Hall", body["location"])
	}

	rec := ts.do(t, http.MethodPut, "/events/1", &testAdmin, `{"status":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/events/1", &testAdmin, `{"status":"Approved"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decode(t, rec)["status"])
}

func TestHandleApproveEvent(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPut, "/events/3/approve", &testVolunteer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, "/events/3/approve", &testAdmin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decode(t, rec)["status"])
}

func TestHandleSignup_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"created", nil, http.StatusCreated},
		{"at capacity", domain.ErrAtCapacity, http.StatusConflict},
		{"duplicate", domain.ErrAlreadySignedUp, http.StatusConflict},
		{"not open", domain.ErrEventNotOpen, http.StatusForbidden},
		{"missing", domain.ErrEventNotFound, http.StatusNotFound},
		{"store failure", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer()
			ts.signups.signupErr = tt.err

			rec := ts.do(t, http.MethodPost, "/events/1/signup", &testVolunteer, "")
			assert.Equal(t, tt.want, rec.Code)

			body := decode(t, rec)
			if tt.err == nil {
				assert.NotEmpty(t, body["message"])
				return
			}
			assert.NotContains(t, body["error"], "s.repo.Admit")
			assert.NotContains(t, body["error"], "connection refused")
		})
	}
}

func TestHandleWithdraw(t *testing.T) {
	ts := newTestServer()

	ts.signups.removed = true
	rec := ts.do(t, http.MethodDelete, "/events/1/withdraw", &testVolunteer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["removed"])

	ts.signups.removed = false
	rec = ts.do(t, http.MethodDelete, "/events/1/withdraw", &testVolunteer, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["removed"])
}

func TestHandleRoster_Forbidden(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodGet, "/events/1/signups", &testVolunteer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodGet, "/events/1/signups/stream", &testVolunteer, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthHandlers(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/auth/register", nil, `{"name":"Ann","email":"ann@vwp.local","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/register", nil, `{"name":"Ann","email":"taken@vwp.local","password":"Secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/register", nil, `{"name":"Ann","email":"ann@vwp.local","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", nil, `{"email":"ann@vwp.local","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/auth/login", nil, `{"email":"ann@vwp.local","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	token, ok := decode(t, rec)["token"].(string)
	require.True(t, ok)
	actor, err := jwthelper.ParseToken([]byte(testSigningKey), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), actor.ID)
	assert.Equal(t, domain.RoleRegisteredUser, actor.Role)
}
