package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/volunteer-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/volunteer-api/internal/domain"
	"github.com/vietanh2810/volunteer-api/internal/pkg/jwthelper"
)

const actorKey = "actor"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// Identify resolves the bearer token into the request's actor. A request
// without a token proceeds as a guest; a token that does not verify is rejected.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.Set(actorKey, domain.Guest)
			ctx.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthenticated(jwthelper.ErrInvalidToken))
			return
		}

		actor, err := jwthelper.ParseToken(a.signingKey, strings.TrimSpace(tokenString))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		ctx.Set(actorKey, actor)
		ctx.Next()
	}
}

// RequireLogin rejects guests. It must run after Identify.
func (a *Authenticator) RequireLogin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ActorFromContext(ctx).IsGuest() {
			response.RenderErr(ctx, response.ErrUnauthenticated(domain.ErrUnauthenticated))
			return
		}

		ctx.Next()
	}
}

// ActorFromContext returns the actor Identify stored, or Guest.
func ActorFromContext(ctx *gin.Context) domain.Actor {
	value, ok := ctx.Get(actorKey)
	if !ok {
		return domain.Guest
	}

	actor, ok := value.(domain.Actor)
	if !ok {
		return domain.Guest
	}

	return actor
}

// SetActor stores actor on ctx the way Identify does.
func SetActor(ctx *gin.Context, actor domain.Actor) {
	ctx.Set(actorKey, actor)
}
