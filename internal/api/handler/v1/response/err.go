package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

// Err is the `{error}` envelope every failed request is answered with.
type Err struct {
	HTTPStatusCode int    `json:"-"`
	Message        string `json:"error"`
	Err            error  `json:"-"`
}

func (e *Err) Error() string {
	return e.Message
}

func (e *Err) Unwrap() error {
	return e.Err
}

// RenderErr writes e and aborts the chain. Server errors are logged with the
// request id; their cause never reaches the client.
func RenderErr(ctx *gin.Context, e *Err) {
	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.AbortWithStatusJSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusBadRequest,
		Message:        err.Error(),
		Err:            err,
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "authentication required",
		Err:            err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusUnauthorized,
		Message:        "invalid credentials",
		Err:            err,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusForbidden,
		Message:        err.Error(),
		Err:            err,
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	return &Err{
		HTTPStatusCode: http.StatusNotFound,
		Message:        fmt.Sprintf("%v with %v %v not found", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusConflict,
		Message:        err.Error(),
		Err:            err,
	}
}

func ErrTooManyRequests() *Err {
	return &Err{
		HTTPStatusCode: http.StatusTooManyRequests,
		Message:        "too many requests",
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		HTTPStatusCode: http.StatusInternalServerError,
		Message:        "server error",
		Err:            err,
	}
}

// FromDomain maps err onto the error taxonomy. Anything it does not recognize
// is a server error.
func FromDomain(err error) *Err {
	var sentinel error
	match := func(targets ...error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				sentinel = target
				return true
			}
		}
		return false
	}

	switch {
	case match(domain.ErrUnauthenticated):
		return ErrUnauthenticated(err)
	case match(domain.ErrWrongCredentials):
		return ErrWrongCredentials(err)
	case match(domain.ErrInsufficientRole, domain.ErrNotOwner, domain.ErrEventNotOpen):
		return ErrPermissionDenied(sentinel)
	case match(domain.ErrEventNotFound, domain.ErrUserNotFound, domain.ErrCommentNotFound):
		return &Err{HTTPStatusCode: http.StatusNotFound, Message: sentinel.Error(), Err: err}
	case match(domain.ErrAtCapacity, domain.ErrAlreadySignedUp, domain.ErrUserEmailExists):
		return ErrConflict(sentinel)
	case match(domain.ErrInvalidInput, domain.ErrTitleRequired, domain.ErrStartRequired,
		domain.ErrEndBeforeStart, domain.ErrInvalidCapacity, domain.ErrInvalidTransition,
		domain.ErrUnknownStatus, domain.ErrNotSignedUp):
		return &Err{HTTPStatusCode: http.StatusBadRequest, Message: validationMessage(err, sentinel), Err: err}
	default:
		return ErrInternalServerError(err)
	}
}

// validationMessage keeps the detail a validation error was wrapped with but
// drops the call path the layers above it added.
func validationMessage(err, sentinel error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if strings.HasPrefix(e.Error(), sentinel.Error()) {
			return e.Error()
		}
	}
	return sentinel.Error()
}
