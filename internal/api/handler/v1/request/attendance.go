package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/volunteer-api/internal/service"
)

type MarkAttendanceRequest struct {
	UserID  uint    `json:"user_id"`
	Present bool    `json:"present"`
	Hours   float64 `json:"hours"`
}

func (req *MarkAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.Hours, validation.Min(0.0), validation.Max(24.0)),
	)
}

func (req *MarkAttendanceRequest) ToInput() service.MarkInput {
	return service.MarkInput{
		UserID:  req.UserID,
		Present: req.Present,
		Hours:   req.Hours,
	}
}
