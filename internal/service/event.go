package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/metrics"
	"github.com/vietanh2810/volunteer-api/internal/repository"
)

var (
	ErrEventNotFound = repository.ErrEventNotFound
)

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	ListByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error)
	Update(ctx context.Context, id uint, fn func(event *domain.Event) error) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
}

type SignupCounter interface {
	Count(ctx context.Context, eventID uint) (int, error)
}

// NewEventInput carries the fields of an event submission.
type NewEventInput struct {
	Title         string
	Description   string
	Location      string
	StartDatetime time.Time
	EndDatetime   *time.Time
	Capacity      *int
}

type EventService struct {
	repo       EventRepository
	signups    SignupCounter
	authorizer *authz.Authorizer
}

func NewEventService(repo EventRepository, signups SignupCounter, authorizer *authz.Authorizer) *EventService {
	return &EventService{
		repo:       repo,
		signups:    signups,
		authorizer: authorizer,
	}
}

func (s *EventService) ListApproved(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	if err := s.authorizer.Authorize(actor, authz.ListApprovedEvents, nil).Err(); err != nil {
		return nil, err
	}

	events, err := s.repo.ListByStatus(ctx, domain.EventApproved)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByStatus -> %w", err)
	}

	return events, nil
}

func (s *EventService) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Event, error) {
	if err := s.authorizer.Authorize(actor, authz.ListAllEvents, nil).Err(); err != nil {
		return nil, err
	}

	events, err := s.repo.ListByStatus(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByStatus -> %w", err)
	}

	return events, nil
}

// Get returns an approved event with its occupancy. Events that are not
// approved are reported as missing.
func (s *EventService) Get(ctx context.Context, actor domain.Actor, id uint) (domain.EventDetail, error) {
	if err := s.authorizer.Authorize(actor, authz.ViewApprovedEvent, nil).Err(); err != nil {
		return domain.EventDetail{}, err
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.EventDetail{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if !event.IsApproved() {
		return domain.EventDetail{}, ErrEventNotFound
	}

	count, err := s.signups.Count(ctx, id)
	if err != nil {
		return domain.EventDetail{}, fmt.Errorf("s.signups.Count -> %w", err)
	}

	return domain.EventDetail{Event: event, SignupCount: count}, nil
}

func (s *EventService) Create(ctx context.Context, actor domain.Actor, in NewEventInput) (domain.Event, error) {
	if err := s.authorizer.Authorize(actor, authz.CreateEvent, nil).Err(); err != nil {
		return domain.Event{}, err
	}

	event, err := domain.NewEvent(actor, in.Title, in.Description, in.Location, in.StartDatetime, in.EndDatetime, in.Capacity)
	if err != nil {
		return domain.Event{}, err
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	zap.L().Info("event submitted",
		zap.Uint("event_id", created.ID),
		zap.Uint("actor_id", actor.ID),
	)

	return created, nil
}

// Update edits an event as its creator or an admin. The read, the checks and
// the write happen under the event's row lock, which also holds off new
// signups while a lowered capacity is checked against the current count.
func (s *EventService) Update(ctx context.Context, actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error) {
	var before domain.EventStatus

	updated, err := s.repo.Update(ctx, id, func(event *domain.Event) error {
		if err := s.authorizer.Authorize(actor, authz.EditEvent, authz.EventResource(*event)).Err(); err != nil {
			return err
		}

		before = event.Status
		if err := event.ApplyEdit(actor, upd); err != nil {
			return err
		}
		if upd.Capacity == nil {
			return nil
		}

		occupancy, err := s.signups.Count(ctx, id)
		if err != nil {
			return fmt.Errorf("s.signups.Count -> %w", err)
		}
		return event.FitsOccupancy(occupancy)
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.recordTransition(actor, updated.ID, before, updated.Status)
	return updated, nil
}

func (s *EventService) Approve(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	return s.moderate(ctx, actor, id, authz.ApproveEvent, (*domain.Event).Approve)
}

func (s *EventService) Decline(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error) {
	return s.moderate(ctx, actor, id, authz.DeclineEvent, (*domain.Event).Decline)
}

func (s *EventService) moderate(ctx context.Context, actor domain.Actor, id uint, action authz.Action, apply func(*domain.Event, domain.Actor) error) (domain.Event, error) {
	if err := s.authorizer.Authorize(actor, action, nil).Err(); err != nil {
		return domain.Event{}, err
	}

	var before domain.EventStatus

	updated, err := s.repo.Update(ctx, id, func(event *domain.Event) error {
		before = event.Status
		return apply(event, actor)
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.recordTransition(actor, updated.ID, before, updated.Status)
	return updated, nil
}

// Delete removes an event and everything attached to it.
func (s *EventService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.authorizer.Authorize(actor, authz.DeleteEvent, authz.EventResource(event)).Err(); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	zap.L().Info("event deleted",
		zap.Uint("event_id", id),
		zap.Uint("actor_id", actor.ID),
	)

	return nil
}

func (s *EventService) recordTransition(actor domain.Actor, id uint, from, to domain.EventStatus) {
	if from == to {
		return
	}

	metrics.StatusTransitions.WithLabelValues(string(to)).Inc()
	zap.L().Info("event status changed",
		zap.Uint("event_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint("actor_id", actor.ID),
	)
}

// visible reports whether actor may see event outside the admin listing.
func visible(authorizer *authz.Authorizer, actor domain.Actor, event domain.Event) bool {
	if event.IsApproved() {
		return true
	}
	if !actor.IsGuest() && event.CreatedBy == actor.ID {
		return true
	}
	return authorizer.Authorize(actor, authz.ListAllEvents, nil).Permitted()
}
