package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/service"
)

type UserService interface {
	Profile(ctx context.Context, actor domain.Actor) (service.Profile, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Description  The caller's account. role_changed tells a client to log in again.
// @Success      200  {object}  service.Profile
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	profile, err := h.svc.Profile(ctx.Request.Context(), actorFromContext(ctx))
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleGetMe -> h.svc.Profile -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, profile)
}
