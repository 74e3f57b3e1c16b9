package dao

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

var (
	ErrAlreadySignedUp = domain.ErrAlreadySignedUp
)

const uniqueSignupEventUser = "idx_signups_event_user"

type Signup struct {
	ID        uint      `gorm:"primaryKey"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_signups_event_user,priority:1;index:idx_signups_event_created,priority:1"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_signups_event_user,priority:2"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"not null;index:idx_signups_event_created,priority:2"`
}

// RosterRow is a signup joined with the signed up user.
type RosterRow struct {
	ID        uint
	EventID   uint
	UserID    uint
	CreatedAt time.Time
	Name      string
	Email     string
}

// AdmitFunc decides whether a signup may be added to event, which currently
// holds occupancy signups.
type AdmitFunc func(event Event, occupancy int) error

type SignupDAO struct {
	db *gorm.DB
}

func NewSignupDAO(db *gorm.DB) *SignupDAO {
	return &SignupDAO{
		db: db,
	}
}

// Admit runs lock, count, decide and insert as one transaction. The event row
// lock serializes admissions for the same event across processes, and the
// unique index on (event_id, user_id) rejects duplicates.
func (d *SignupDAO) Admit(ctx context.Context, eventID, userID uint, admit AdmitFunc) (Signup, int, error) {
	var (
		signup    Signup
		occupancy int
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}

		var count int64
		if err = tx.Model(&Signup{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
			return fmt.Errorf("count signups -> %w", err)
		}

		if err = admit(event, int(count)); err != nil {
			return err
		}

		signup = Signup{EventID: eventID, UserID: userID}
		if err = tx.Omit("User").Create(&signup).Error; err != nil {
			if isUniqueViolation(err, uniqueSignupEventUser) {
				return ErrAlreadySignedUp
			}
			return fmt.Errorf("insert signup -> %w", err)
		}

		occupancy = int(count) + 1
		return nil
	})
	if err != nil {
		return Signup{}, 0, err
	}

	return signup, occupancy, nil
}

// Delete removes the user's signup and reports whether one existed.
func (d *SignupDAO) Delete(ctx context.Context, eventID, userID uint) (bool, error) {
	result := d.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&Signup{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (d *SignupDAO) Count(ctx context.Context, eventID uint) (int, error) {
	var count int64

	if err := d.db.WithContext(ctx).Model(&Signup{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		return 0, err
	}

	return int(count), nil
}

// ListByEvent returns the roster in signup order.
func (d *SignupDAO) ListByEvent(ctx context.Context, eventID uint) ([]RosterRow, error) {
	var rows []RosterRow

	err := d.db.WithContext(ctx).
		Table("signups").
		Select("signups.id, signups.event_id, signups.user_id, signups.created_at, users.name, users.email").
		Joins("JOIN users ON users.id = signups.user_id").
		Where("signups.event_id = ?", eventID).
		Order("signups.created_at ASC").
		Order("signups.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (d *SignupDAO) Exists(ctx context.Context, eventID, userID uint) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&Signup{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
