package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

type SignupService interface {
	Signup(ctx context.Context, actor domain.Actor, eventID uint) (domain.Signup, error)
	Withdraw(ctx context.Context, actor domain.Actor, eventID uint) (bool, error)
	ListSignups(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.RosterEntry, error)
	AuthorizeRoster(ctx context.Context, actor domain.Actor, eventID uint) error
}

// RosterStream serves a live roster feed over an upgraded connection.
type RosterStream interface {
	Serve(w http.ResponseWriter, r *http.Request, eventID uint) error
}

type SignupHandler struct {
	svc    SignupService
	stream RosterStream
}

func NewSignupHandler(svc SignupService, stream RosterStream) *SignupHandler {
	return &SignupHandler{
		svc:    svc,
		stream: stream,
	}
}

// HandleSignup godoc
// @Summary      Sign up for an event
// @Tags         signups
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201      {object}  response.SignupResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/signup [post]
// @Security BearerAuth
func (h *SignupHandler) HandleSignup(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	signup, err := h.svc.Signup(ctx.Request.Context(), actorFromContext(ctx), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, response.SignupResponse{
		Message: "Signed up successfully",
		Signup:  signup,
	})
}

// HandleWithdraw godoc
// @Summary      Withdraw from an event
// @Description  Removes the caller's own signup. Withdrawing without a signup succeeds.
// @Tags         signups
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  response.WithdrawResponse
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/withdraw [delete]
// @Security BearerAuth
func (h *SignupHandler) HandleWithdraw(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	removed, err := h.svc.Withdraw(ctx.Request.Context(), actorFromContext(ctx), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleWithdraw -> h.svc.Withdraw -> %w", err)))
		return
	}

	message := "Withdrawn successfully"
	if !removed {
		message = "Not signed up for this event"
	}

	ctx.JSON(http.StatusOK, response.WithdrawResponse{
		Message: message,
		Removed: removed,
	})
}

// HandleListSignups godoc
// @Summary      Event roster
// @Tags         signups
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.RosterEntry
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/signups [get]
// @Security BearerAuth
func (h *SignupHandler) HandleListSignups(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roster, err := h.svc.ListSignups(ctx.Request.Context(), actorFromContext(ctx), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleListSignups -> h.svc.ListSignups -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, roster)
}

// HandleRosterStream godoc
// @Summary      Live roster changes
// @Description  Upgrades to a websocket that receives a message for every signup and withdrawal on the event.
// @Tags         signups
// @Param        eventID  path      int     true  "Event ID"
// @Success      101      {string}  string  "Switching Protocols"
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/signups/stream [get]
// @Security BearerAuth
func (h *SignupHandler) HandleRosterStream(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.AuthorizeRoster(ctx.Request.Context(), actorFromContext(ctx), eventID); err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleRosterStream -> h.svc.AuthorizeRoster -> %w", err)))
		return
	}

	// The upgrader has already answered the client when this fails.
	if err := h.stream.Serve(ctx.Writer, ctx.Request, eventID); err != nil {
		zap.L().Debug("roster stream upgrade failed", zap.Uint("event_id", eventID), zap.Error(err))
	}
}
