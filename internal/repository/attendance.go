package repository

import (
	"context"
	"fmt"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/repository/dao"
)

type AttendanceDAO interface {
	Upsert(ctx context.Context, attendance dao.Attendance) (dao.Attendance, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.AttendanceRow, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) Mark(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	saved, err := r.dao.Upsert(ctx, dao.Attendance{
		EventID:  attendance.EventID,
		UserID:   attendance.UserID,
		Present:  attendance.Present,
		Hours:    attendance.Hours,
		MarkedBy: attendance.MarkedBy,
		MarkedAt: attendance.MarkedAt,
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	attendance.ID = saved.ID
	return attendance, nil
}

func (r *AttendanceRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	rows, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	records := make([]domain.Attendance, 0, len(rows))
	for _, row := range rows {
		records = append(records, domain.Attendance{
			ID:       row.ID,
			EventID:  row.EventID,
			UserID:   row.UserID,
			Name:     row.Name,
			Email:    row.Email,
			Present:  row.Present,
			Hours:    row.Hours,
			MarkedBy: row.MarkedBy,
			MarkedAt: row.MarkedAt,
		})
	}

	return records, nil
}
