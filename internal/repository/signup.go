package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository/dao"
)

var (
	ErrAlreadySignedUp = dao.ErrAlreadySignedUp
)

type SignupDAO interface {
	Admit(ctx context.Context, eventID, userID uint, admit dao.AdmitFunc) (dao.Signup, int, error)
	Delete(ctx context.Context, eventID, userID uint) (bool, error)
	Count(ctx context.Context, eventID uint) (int, error)
	Exists(ctx context.Context, eventID, userID uint) (bool, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.RosterRow, error)
}

type SignupRepository struct {
	dao SignupDAO
}

func NewSignupRepository(dao SignupDAO) *SignupRepository {
	return &SignupRepository{
		dao: dao,
	}
}

// Admit inserts a signup for userID if admit accepts the locked event at its
// current occupancy. It returns the new occupancy.
func (r *SignupRepository) Admit(ctx context.Context, eventID, userID uint, admit func(event domain.Event, occupancy int) error) (domain.Signup, int, error) {
	created, occupancy, err := r.dao.Admit(ctx, eventID, userID, func(row dao.Event, occupancy int) error {
		return admit(eventToDomain(row), occupancy)
	})
	if err != nil {
		return domain.Signup{}, 0, fmt.Errorf("r.dao.Admit -> %w", err)
	}

	return domain.Signup{
		ID:        created.ID,
		EventID:   created.EventID,
		UserID:    created.UserID,
		CreatedAt: created.CreatedAt,
	}, occupancy, nil
}

func (r *SignupRepository) Delete(ctx context.Context, eventID, userID uint) (bool, error) {
	removed, err := r.dao.Delete(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return removed, nil
}

func (r *SignupRepository) Count(ctx context.Context, eventID uint) (int, error) {
	count, err := r.dao.Count(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *SignupRepository) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	exists, err := r.dao.Exists(ctx, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.Exists -> %w", err)
	}

	return exists, nil
}

func (r *SignupRepository) ListRoster(ctx context.Context, eventID uint) ([]domain.RosterEntry, error) {
	rows, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	roster := make([]domain.RosterEntry, 0, len(rows))
	for _, row := range rows {
		roster = append(roster, domain.RosterEntry{
			Signup: domain.Signup{
				ID:        row.ID,
				EventID:   row.EventID,
				UserID:    row.UserID,
				CreatedAt: row.CreatedAt,
			},
			Name:  row.Name,
			Email: row.Email,
		})
	}

	return roster, nil
}
