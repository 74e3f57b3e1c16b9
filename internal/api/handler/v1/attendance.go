package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/service"
)

type AttendanceService interface {
	Mark(ctx context.Context, actor domain.Actor, eventID uint, in service.MarkInput) (domain.Attendance, error)
	List(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Attendance, error)
}

type AttendanceHandler struct {
	svc AttendanceService
}

func NewAttendanceHandler(svc AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{
		svc: svc,
	}
}

// HandleListAttendance godoc
// @Summary      Attendance for an event
// @Tags         attendance
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Attendance
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListAttendance(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	records, err := h.svc.List(ctx.Request.Context(), actorFromContext(ctx), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleListAttendance -> h.svc.List -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleMarkAttendance godoc
// @Summary      Mark a volunteer's attendance
// @Description  Coordinators and admins. Marking the same volunteer again replaces the record.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                            true  "Event ID"
// @Param        input    body      request.MarkAttendanceRequest  true  "Attendance"
// @Success      200      {object}  domain.Attendance
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleMarkAttendance(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.MarkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	record, err := h.svc.Mark(ctx.Request.Context(), actorFromContext(ctx), eventID, req.ToInput())
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleMarkAttendance -> h.svc.Mark -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, record)
}
