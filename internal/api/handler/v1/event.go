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

type EventService interface {
	ListApproved(ctx context.Context, actor domain.Actor) ([]domain.Event, error)
	ListAll(ctx context.Context, actor domain.Actor) ([]domain.Event, error)
	Get(ctx context.Context, actor domain.Actor, id uint) (domain.EventDetail, error)
	Create(ctx context.Context, actor domain.Actor, in service.NewEventInput) (domain.Event, error)
	Update(ctx context.Context, actor domain.Actor, id uint, upd domain.EventUpdate) (domain.Event, error)
	Approve(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error)
	Decline(ctx context.Context, actor domain.Actor, id uint) (domain.Event, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleListEvents godoc
// @Summary      List approved events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	events, err := h.svc.ListApproved(ctx.Request.Context(), actorFromContext(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleListEvents -> h.svc.ListApproved -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleListAllEvents godoc
// @Summary      List events of every status
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/all [get]
// @Security BearerAuth
func (h *EventHandler) HandleListAllEvents(ctx *gin.Context) {
	events, err := h.svc.ListAll(ctx.Request.Context(), actorFromContext(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleListAllEvents -> h.svc.ListAll -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an approved event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.EventDetail
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	id, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := h.svc.Get(ctx.Request.Context(), actorFromContext(ctx), id)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleGetEvent -> h.svc.Get -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Submit an event
// @Description  The event is created pending and becomes public once an admin approves it.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  response.EventCreatedResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), actorFromContext(ctx), req.ToInput())
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleCreateEvent -> h.svc.Create -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.EventCreatedResponse{
		Message: "Event created and pending approval",
		EventID: event.ID,
		Event:   event,
	})
}

// HandleUpdateEvent godoc
// @Summary      Edit an event
// @Description  Creator or admin. A status in the body is applied for admins only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                         true  "Event ID"
// @Param        input    body      request.UpdateEventRequest  true  "Fields to change"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	id, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), actorFromContext(ctx), id, req.ToUpdate())
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleUpdateEvent -> h.svc.Update -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleApproveEvent godoc
// @Summary      Approve an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/approve [put]
// @Security BearerAuth
func (h *EventHandler) HandleApproveEvent(ctx *gin.Context) {
	h.moderate(ctx, "HandleApproveEvent", h.svc.Approve)
}

// HandleDeclineEvent godoc
// @Summary      Decline an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/decline [put]
// @Security BearerAuth
func (h *EventHandler) HandleDeclineEvent(ctx *gin.Context) {
	h.moderate(ctx, "HandleDeclineEvent", h.svc.Decline)
}

func (h *EventHandler) moderate(ctx *gin.Context, name string, apply func(context.Context, domain.Actor, uint) (domain.Event, error)) {
	id, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	event, err := apply(ctx.Request.Context(), actorFromContext(ctx), id)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.%s -> %w", name, err)))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Description  Creator or admin. Signups, comments and attendance go with it.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.Message
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	id, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actorFromContext(ctx), id); err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleDeleteEvent -> h.svc.Delete -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
