package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	redactedSegment = "[redacted]"
	requestIDHeader = "X-Request-ID"
)

// surface groups routes by who consumes them: scripts read the JSON API, browsers
// read views, and orchestrators poll the health check.
type surface string

const (
	apiSurface    surface = "api"
	viewSurface   surface = "view"
	healthSurface surface = "health"
)

func routeSurface(route string) surface {
	switch {
	case route == "/api" || strings.HasPrefix(route, "/api/"):
		return apiSurface
	case route == "/healthz":
		return healthSurface
	default:
		return viewSurface
	}
}

func operationSurface(ctx huma.Context) surface {
	if op := ctx.Operation(); op != nil {
		return routeSurface(op.Path)
	}
	return routeSurface(ctx.URL().Path)
}

// requestIDMiddleware reuses a caller supplied X-Request-ID when it is a UUID so
// reverse proxies can correlate logs; anything else is replaced.
func (s *Server) requestIDMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		reqID := inboundRequestID(ctx.Header(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}

		goCtx := context.WithValue(ctx.Context(), requestIDContextKey, reqID)
		ctx = huma.WithContext(ctx, goCtx)
		ctx.SetHeader(requestIDHeader, reqID)

		if hub := sentry.GetHubFromContext(goCtx); hub != nil {
			hub.Scope().SetTag("request_id", reqID)
		}

		next(ctx)
	}
}

func inboundRequestID(value string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return ""
	}
	return parsed.String()
}

func (s *Server) loggingMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.logger == nil {
			next(ctx)
			return
		}

		start := time.Now()
		next(ctx)

		status := ctx.Status()
		if status == 0 {
			status = stdhttp.StatusOK
		}

		area := operationSurface(ctx)
		fields := logrus.Fields{
			"method":      ctx.Method(),
			"status":      status,
			"surface":     string(area),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		}

		if op := ctx.Operation(); op != nil {
			fields["route"] = op.Path
		}

		if req, _ := humago.Unwrap(ctx); req != nil {
			fields["path"] = redactPath(req.URL.Path)
			fields["remote_addr"] = req.RemoteAddr
		}

		if requestID := RequestIDFromContext(ctx.Context()); requestID != "" {
			fields["request_id"] = requestID
		}

		entry := s.logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("request failed")
		case area == healthSurface:
			entry.Debug("health check completed")
		default:
			entry.Info("request completed")
		}
	}
}

// recoveryMiddleware turns a panic into a 500 in the format the route speaks:
// problem JSON for the API and the HTML error page for views.
func (s *Server) recoveryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			var err error
			switch v := rec.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("panic: %v", v)
			}

			area := operationSurface(ctx)
			s.recordError(ctx.Context(), err, "panic recovered", logrus.Fields{"surface": string(area)})

			if hub := sentry.GetHubFromContext(ctx.Context()); hub != nil {
				hub.RecoverWithContext(ctx.Context(), rec)
				hub.Flush(2 * time.Second)
			}

			if area == viewSurface {
				s.writeViewError(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
				return
			}
			_ = huma.WriteErr(s.api, ctx, stdhttp.StatusInternalServerError, "internal server error")
		}()

		next(ctx)
	}
}

func (s *Server) writeViewError(ctx huma.Context, status int, message string) {
	resp, _ := s.renderErrorResponse(ctx.Context(), status, message)
	ctx.SetHeader("Content-Type", resp.ContentType)
	ctx.SetHeader("Cache-Control", resp.CacheControl)
	ctx.SetStatus(status)
	_, _ = ctx.BodyWriter().Write(resp.Body)
}

func (s *Server) sentryMiddleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if s.sentry == nil {
			next(ctx)
			return
		}

		hub := s.sentry.Clone()
		scope := hub.Scope()
		scope.SetTag("http.method", ctx.Method())
		scope.SetTag("surface", string(operationSurface(ctx)))
		if op := ctx.Operation(); op != nil {
			scope.SetTag("http.route", op.Path)
		}
		scope.SetTag("http.path", redactPath(ctx.URL().Path))

		goCtx := sentry.SetHubOnContext(ctx.Context(), hub)
		ctx = huma.WithContext(ctx, goCtx)

		defer hub.Flush(2 * time.Second)

		next(ctx)
	}
}

// redactPath hides the segment following "edit" so edit secrets never reach the logs.
func redactPath(path string) string {
	segments := strings.Split(path, "/")
	for i := 0; i < len(segments)-1; i++ {
		if segments[i] == "edit" && segments[i+1] != "" {
			segments[i+1] = redactedSegment
		}
	}
	return strings.Join(segments, "/")
}
