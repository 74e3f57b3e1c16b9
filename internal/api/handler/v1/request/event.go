package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/service"
)

var errEndBeforeStart = errors.New("end_datetime must not be before start_datetime")

type CreateEventRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	StartDatetime time.Time  `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime"`
	Capacity      *int       `json:"capacity"`
}

func (req *CreateEventRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Location, validation.Length(0, 255)),
		validation.Field(&req.StartDatetime, validation.Required),
		validation.Field(&req.Capacity, validation.NilOrNotEmpty, validation.Min(1)),
	)
	if err != nil {
		return err
	}

	if req.EndDatetime != nil && req.EndDatetime.Before(req.StartDatetime) {
		return errEndBeforeStart
	}

	return nil
}

func (req *CreateEventRequest) ToInput() service.NewEventInput {
	return service.NewEventInput{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Capacity:      req.Capacity,
	}
}

// UpdateEventRequest is a partial edit; omitted fields keep their value.
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Location      *string    `json:"location"`
	StartDatetime *time.Time `json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime"`
	Capacity      *int       `json:"capacity"`
	Status        *string    `json:"status"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&req.Location, validation.Length(0, 255)),
		validation.Field(&req.Capacity, validation.NilOrNotEmpty, validation.Min(1)),
	)
}

// ToUpdate passes status through as sent. Only an admin's status is parsed,
// when the edit is applied.
func (req *UpdateEventRequest) ToUpdate() domain.EventUpdate {
	upd := domain.EventUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		StartDatetime: req.StartDatetime,
		EndDatetime:   req.EndDatetime,
		Capacity:      req.Capacity,
	}

	if req.Status != nil {
		status := domain.EventStatus(*req.Status)
		upd.Status = &status
	}

	return upd
}
