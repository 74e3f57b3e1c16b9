package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

var (
	ErrEventNotFound = domain.ErrEventNotFound
)

type Event struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"not null"`
	Description   string    `gorm:"type:text"`
	Location      string
	StartDatetime time.Time `gorm:"not null;index"`
	EndDatetime   *time.Time
	Capacity      *int
	Status        string `gorm:"not null;default:'pending';index"`
	CreatedBy     uint   `gorm:"not null;index"`
	Creator       User   `gorm:"foreignKey:CreatedBy"`

	Signups    []Signup     `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Comments   []Comment    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Attendance []Attendance `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

// FindByStatus lists events, newest start first. An empty status lists every event.
func (d *EventDAO) FindByStatus(ctx context.Context, status string) ([]Event, error) {
	var events []Event

	query := d.db.WithContext(ctx).Order("start_datetime DESC").Order("id DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

// Update loads the event under a row lock, lets fn modify it and saves the
// result in the same transaction. Concurrent updates of one event therefore
// apply one after the other instead of overwriting each other.
func (d *EventDAO) Update(ctx context.Context, id uint, fn func(event *Event) error) (Event, error) {
	var updated Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, id)
		if err != nil {
			return err
		}

		if err = fn(&event); err != nil {
			return err
		}
		event.ID = id

		if err = tx.Omit(clause.Associations).Save(&event).Error; err != nil {
			return fmt.Errorf("tx.Save -> %w", err)
		}

		updated = event
		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return updated, nil
}

// Delete removes the event together with its signups, comments and attendance.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockEvent(tx, id); err != nil {
			return err
		}

		for _, dependent := range []interface{}{&Signup{}, &Comment{}, &Attendance{}} {
			if err := tx.Where("event_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("tx.Delete(%T) -> %w", dependent, err)
			}
		}

		if err := tx.Delete(&Event{}, id).Error; err != nil {
			return fmt.Errorf("tx.Delete(event) -> %w", err)
		}

		return nil
	})
}

// lockEvent reads the event row with SELECT ... FOR UPDATE. It must run inside a transaction.
func lockEvent(tx *gorm.DB, id uint) (Event, error) {
	var event Event

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, fmt.Errorf("lock event row -> %w", err)
	}

	return event, nil
}
