package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository/dao"
)

var (
	ErrEventNotFound = dao.ErrEventNotFound
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindByStatus(ctx context.Context, status string) ([]dao.Event, error)
	Update(ctx context.Context, id uint, fn func(event *dao.Event) error) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, eventToDAO(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return eventToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return eventToDomain(found), nil
}

// ListByStatus lists events with the given status. An empty status lists all of them.
func (r *EventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]domain.Event, error) {
	found, err := r.dao.FindByStatus(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatus -> %w", err)
	}

	events := make([]domain.Event, 0, len(found))
	for _, e := range found {
		events = append(events, eventToDomain(e))
	}

	return events, nil
}

// Update hands fn the locked current state of the event and persists whatever
// fn leaves behind. Nothing is written when fn fails.
func (r *EventRepository) Update(ctx context.Context, id uint, fn func(event *domain.Event) error) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, id, func(row *dao.Event) error {
		event := eventToDomain(*row)
		if err := fn(&event); err != nil {
			return err
		}

		next := eventToDAO(event)
		next.CreatedBy = row.CreatedBy
		next.CreatedAt = row.CreatedAt
		*row = next
		return nil
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return eventToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func eventToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		StartDatetime: e.StartDatetime,
		EndDatetime:   e.EndDatetime,
		Capacity:      e.Capacity,
		Status:        domain.EventStatus(e.Status),
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func eventToDAO(e domain.Event) dao.Event {
	return dao.Event{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		Location:      e.Location,
		StartDatetime: e.StartDatetime,
		EndDatetime:   e.EndDatetime,
		Capacity:      e.Capacity,
		Status:        string(e.Status),
		CreatedBy:     e.CreatedBy,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
