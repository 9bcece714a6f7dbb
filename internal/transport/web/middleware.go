package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/pkg/log"
)

const (
	requestIDHeader = "X-Request-ID"
	sessionIDHeader = "X-Session-ID"
	maxHeaderIDLen  = 64
)

// requestContext tags every request with a request id, a session id and a
// logger carrying both, then records the outcome.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := headerID(r, requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		sessionID := headerID(r, sessionIDHeader)
		if sessionID == "" {
			sessionID = requestID
		}
		sessionID = "web-" + sessionID

		ctx := log.With(r.Context(), "request_id", requestID)
		ctx = core.WithSessionID(ctx, sessionID)

		w.Header().Set(requestIDHeader, requestID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.HTTPRequest(route, strconv.Itoa(status))

		log.FromCtx(ctx).Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}

// headerID accepts client supplied ids only when they are valid UUIDs.
func headerID(r *http.Request, name string) string {
	v := r.Header.Get(name)
	if v == "" || len(v) > maxHeaderIDLen {
		return ""
	}
	if _, err := uuid.Parse(v); err != nil {
		return ""
	}
	return v
}
