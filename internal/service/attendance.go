package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/authz"
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

var (
	ErrNotSignedUp = domain.ErrNotSignedUp
)

type AttendanceRepository interface {
	Mark(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error)
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error)
}

type SignupChecker interface {
	Exists(ctx context.Context, eventID, userID uint) (bool, error)
}

// MarkInput is one volunteer's attendance as reported by a coordinator.
type MarkInput struct {
	UserID  uint
	Present bool
	Hours   float64
}

type AttendanceService struct {
	repo       AttendanceRepository
	events     EventFinder
	signups    SignupChecker
	authorizer *authz.Authorizer
}

func NewAttendanceService(repo AttendanceRepository, events EventFinder, signups SignupChecker, authorizer *authz.Authorizer) *AttendanceService {
	return &AttendanceService{
		repo:       repo,
		events:     events,
		signups:    signups,
		authorizer: authorizer,
	}
}

// Mark records attendance for a signed up volunteer, replacing any earlier mark.
func (s *AttendanceService) Mark(ctx context.Context, actor domain.Actor, eventID uint, in MarkInput) (domain.Attendance, error) {
	if err := s.authorizer.Authorize(actor, authz.MarkAttendance, nil).Err(); err != nil {
		return domain.Attendance{}, err
	}
	if in.Hours < 0 {
		return domain.Attendance{}, fmt.Errorf("%w: hours must not be negative", domain.ErrInvalidInput)
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		return domain.Attendance{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	signedUp, err := s.signups.Exists(ctx, eventID, in.UserID)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("s.signups.Exists -> %w", err)
	}
	if !signedUp {
		return domain.Attendance{}, ErrNotSignedUp
	}

	saved, err := s.repo.Mark(ctx, domain.Attendance{
		EventID:  eventID,
		UserID:   in.UserID,
		Present:  in.Present,
		Hours:    in.Hours,
		MarkedBy: actor.ID,
		MarkedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("s.repo.Mark -> %w", err)
	}

	zap.L().Debug("attendance marked",
		zap.Uint("event_id", eventID),
		zap.Uint("user_id", in.UserID),
		zap.Bool("present", in.Present),
	)

	return saved, nil
}

func (s *AttendanceService) List(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Attendance, error) {
	if err := s.authorizer.Authorize(actor, authz.ViewAttendance, nil).Err(); err != nil {
		return nil, err
	}

	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.events.FindByID -> %w", err)
	}
	if !visible(s.authorizer, actor, event) {
		return nil, ErrEventNotFound
	}

	records, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByEvent -> %w", err)
	}

	return records, nil
}
