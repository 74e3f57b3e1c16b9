package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

type CommentService interface {
	List(ctx context.Context, actor domain.Actor, eventID uint) ([]domain.Comment, error)
	Post(ctx context.Context, actor domain.Actor, eventID uint, content string) (domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, id uint) error
}

type CommentHandler struct {
	svc CommentService
}

func NewCommentHandler(svc CommentService) *CommentHandler {
	return &CommentHandler{
		svc: svc,
	}
}

// HandleListComments godoc
// @Summary      Comments on an event
// @Tags         comments
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Comment
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/comments [get]
func (h *CommentHandler) HandleListComments(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	comments, err := h.svc.List(ctx.Request.Context(), actorFromContext(ctx), eventID)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleListComments -> h.svc.List -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, comments)
}

// HandlePostComment godoc
// @Summary      Comment on an event
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                           true  "Event ID"
// @Param        input    body      request.CreateCommentRequest  true  "Comment"
// @Success      201      {object}  domain.Comment
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/comments [post]
// @Security BearerAuth
func (h *CommentHandler) HandlePostComment(ctx *gin.Context) {
	eventID, respErr := parseID(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	comment, err := h.svc.Post(ctx.Request.Context(), actorFromContext(ctx), eventID, req.Content)
	if err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandlePostComment -> h.svc.Post -> %w", err)))
		return
	}

	ctx.JSON(http.StatusCreated, comment)
}

// HandleDeleteComment godoc
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Param        commentID  path      int  true  "Comment ID"
// @Success      200        {object}  response.Message
// @Failure      401        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /comments/{commentID} [delete]
// @Security BearerAuth
func (h *CommentHandler) HandleDeleteComment(ctx *gin.Context) {
	id, respErr := parseID(ctx, "commentID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actorFromContext(ctx), id); err != nil {
		response.RenderErr(ctx, response.FromDomain(fmt.Errorf("v1.HandleDeleteComment -> h.svc.Delete -> %w", err)))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
