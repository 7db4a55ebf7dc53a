package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ButyrinIA/blogbackend/internal/service"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

const msgInternal = "Internal server error"

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error body. Auth routes also carry success:false.
// Store failures are logged and reported; their cause never reaches the client.
func (s *Server) fail(c *gin.Context, err error, auth bool) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindStore, Message: msgInternal, Err: err}
	}

	if svcErr.Kind == service.KindStore {
		requestLogger(c).Error("request failed",
			slog.String("route", c.FullPath()),
			slog.String("message", svcErr.Message),
			"error", svcErr.Err)
		report(c, svcErr)
	}

	body := gin.H{"message": svcErr.Message}
	if auth {
		body["success"] = false
	}
	c.JSON(statusFor(svcErr.Kind), body)
}

func report(c *gin.Context, svcErr *service.Error) {
	cause := svcErr.Err
	if cause == nil {
		cause = svcErr
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("request_id", requestIDFrom(c))
		scope.SetTag("route", c.FullPath())
		scope.SetExtra("message", svcErr.Message)
		sentry.CaptureException(cause)
	})
}
