package middleware

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
)

// NewRateLimiter builds an in-memory limiter from a formatted rate such as "20-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("limiter.NewRateFromFormatted(%q) -> %w", formatted, err)
	}

	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit counts requests per client IP.
func RateLimit(l *limiter.Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		limiterCtx, err := l.Get(ctx.Request.Context(), ctx.ClientIP())
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.Header("X-RateLimit-Limit", strconv.FormatInt(limiterCtx.Limit, 10))
		ctx.Header("X-RateLimit-Remaining", strconv.FormatInt(limiterCtx.Remaining, 10))

		if limiterCtx.Reached {
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}
