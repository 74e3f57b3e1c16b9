package v1

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/api/middleware"
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

func actorFromContext(ctx *gin.Context) domain.Actor {
	return middleware.ActorFromContext(ctx)
}

// parseID reads a positive integer path parameter.
func parseID(ctx *gin.Context, param string) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("%w: invalid %s", domain.ErrInvalidInput, param))
	}

	return uint(id), nil
}
