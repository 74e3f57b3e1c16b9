package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Attendance struct {
	ID       uint      `gorm:"primaryKey"`
	EventID  uint      `gorm:"not null;uniqueIndex:idx_attendance_event_user,priority:1"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_attendance_event_user,priority:2"`
	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Present  bool      `gorm:"not null;default:false"`
	Hours    float64   `gorm:"not null;default:0"`
	MarkedBy uint      `gorm:"not null"`
	MarkedAt time.Time `gorm:"not null"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// AttendanceRow is an attendance record joined with the volunteer.
type AttendanceRow struct {
	ID       uint
	EventID  uint
	UserID   uint
	Present  bool
	Hours    float64
	MarkedBy uint
	MarkedAt time.Time
	Name     string
	Email    string
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// Upsert writes the record, replacing any earlier mark for the same event and user.
func (d *AttendanceDAO) Upsert(ctx context.Context, attendance Attendance) (Attendance, error) {
	err := d.db.WithContext(ctx).
		Omit("User").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"present", "hours", "marked_by", "marked_at"}),
		}).
		Create(&attendance).Error
	if err != nil {
		return Attendance{}, err
	}

	return attendance, nil
}

func (d *AttendanceDAO) ListByEvent(ctx context.Context, eventID uint) ([]AttendanceRow, error) {
	var rows []AttendanceRow

	err := d.db.WithContext(ctx).
		Table("attendance").
		Select("attendance.id, attendance.event_id, attendance.user_id, attendance.present, attendance.hours, attendance.marked_by, attendance.marked_at, users.name, users.email").
		Joins("JOIN users ON users.id = attendance.user_id").
		Where("attendance.event_id = ?", eventID).
		Order("users.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
