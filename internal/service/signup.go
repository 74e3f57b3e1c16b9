package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/metrics"
	"github.com/vietanh2810/volunteer-api/internal/pkg/keylock"
	"github.com/vietanh2810/volunteer-api/internal/repository"
)

var (
	ErrAlreadySignedUp = repository.ErrAlreadySignedUp
	ErrAtCapacity      = domain.ErrAtCapacity
	ErrEventNotOpen    = domain.ErrEventNotOpen
)

type SignupRepository interface {
	Admit(ctx context.Context, eventID, userID uint, admit func(event domain.Event, occupancy int) error) (domain.Signup, int, error)
	Delete(ctx context.Context, eventID, userID uint) (bool, error)
	Count(ctx context.Context, eventID uint) (int, error)
	ListRoster(ctx context.Context, eventID uint) ([]domain.RosterEntry, error)
}

type EventFinder interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// RosterPublisher receives every accepted roster change.
type RosterPublisher interface {
	Publish(change domain.RosterChange)
}

// SignupService is the admission controller. All roster writes for one event
// are serialized on that event's key; different events never wait on each other.
type SignupService struct {
	repo       SignupRepository
	events     EventFinder
	authorizer *authz.Authorizer
	locks      *keylock.Locker[uint]
	publisher  RosterPublisher
}

func NewSignupService(repo SignupRepository, events EventFinder, authorizer *authz.Authorizer, publisher RosterPublisher) *SignupService {
	return &SignupService{
		repo:       repo,
		events:     events,
		authorizer: authorizer,
		locks:      keylock.New[uint](),
		publisher:  publisher,
	}
}

// Signup admits actor to the event if it is approved and has room left.
func (s *SignupService) Signup(ctx context.Context, actor domain.Actor, eventID uint) (domain.Signup, error) {
	if err := s.authorizer.Authorize(actor, authz.SignUp, nil).Err(); err != nil {
		s.rejected(err)
		return domain.Signup{}, err
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	signup, occupancy, err := s.repo.Admit(ctx, eventID, actor.ID, func(event domain.Event, occupancy int) error {
		if err := s.authorizer.Authorize(actor, authz.SignUp, authz.EventResource(event)).Err(); err != nil {
			return err
		}
		return event.Admit(occupancy)
	})
	if err != nil {
		s.rejected(err)
		return domain.Signup{}, fmt.Errorf("s.repo.Admit -> %w", err)
	}

	metrics.SignupsAccepted.Inc()
	s.publish(domain.RosterChange{
		EventID:   eventID,
		UserID:    actor.ID,
		Kind:      domain.RosterJoined,
		Occupancy: occupancy,
		At:        signup.CreatedAt,
	})

	return signup, nil
}

// Withdraw removes the actor's own signup. Withdrawing without a signup
// succeeds and reports removed == false.
func (s *SignupService) Withdraw(ctx context.Context, actor domain.Actor, eventID uint) (bool, error) {
	err := s.authorizer.Authorize(actor, authz.Withdraw, &authz.Resource{OwnerID: actor.ID}).Err()
	if err != nil {
		return false, err
	}

	if _, err = s.events.FindByID(ctx, eventID); err != nil {
		return false, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	removed, err := s.repo.Delete(ctx, eventID, actor.ID)
	if err != nil {
		return false, fmt.Errorf("s.repo.Delete -> %w", err)
	}
	if !removed {
		return false, nil
	}

	metrics.Withdrawals.Inc()

	occupancy, err := s.repo.Count(ctx, eventID)
	if err != nil {
		zap.L().Warn("roster change not published",
			zap.Uint("event_id", eventID),
			zap.Error(err),
		)
		return true, nil
	}

	s.publish(domain.RosterChange{
		EventID:   eventID,
		UserID:    actor.ID,
		Kind:      domain.RosterLeft,
		Occupancy: occupancy,
		At:        time.Now(),
	})

	return true, nil
}

// ListSignups returns the roster in signup order.
func (s *SignupService) ListSignups(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.RosterEntry, error) {
	if err := s.AuthorizeRoster(ctx, actor, eventID); err != nil {
		return nil, err
	}

	roster, err := s.repo.ListRoster(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListRoster -> %w", err)
	}

	return roster, nil
}

// AuthorizeRoster checks that actor may read the roster of an existing event.
func (s *SignupService) AuthorizeRoster(ctx context.Context, actor domain.Actor, eventID uint) error {
	if actor.IsGuest() {
		return domain.ErrUnauthenticated
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("s.events.FindByID -> %w", err)
	}

	return s.authorizer.Authorize(actor, authz.ViewRoster, authz.EventResource(event)).Err()
}

func (s *SignupService) publish(change domain.RosterChange) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(change)
}

func (s *SignupService) rejected(err error) {
	reason := "error"
	switch {
	case errors.Is(err, domain.ErrAtCapacity):
		reason = "at_capacity"
	case errors.Is(err, domain.ErrAlreadySignedUp):
		reason = "already_signed_up"
	case errors.Is(err, domain.ErrEventNotOpen):
		reason = "not_open"
	case errors.Is(err, domain.ErrEventNotFound):
		reason = "not_found"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInsufficientRole):
		reason = "forbidden"
	}

	metrics.SignupsRejected.WithLabelValues(reason).Inc()
}
