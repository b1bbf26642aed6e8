package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/greenwave-booking/internal/model"
	"github.com/Shivanand-hulikatti/greenwave-booking/internal/service"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type sessionKey struct{}

func sessionFrom(ctx context.Context) model.Session {
	sess, _ := ctx.Value(sessionKey{}).(model.Session)
	return sess
}

// Logger writes one access log line per request.
func Logger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Printf("%s %s %d %dB %s reqid=%s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
				time.Since(start).Round(time.Microsecond), chimiddleware.GetReqID(r.Context()))
		})
	}
}

// Authenticate resolves the bearer token to a live session and stores it in
// the request context. Requests without one get 401.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}
		id, err := h.tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
			return
		}
		sess, err := h.svc.Accounts.Authenticate(id)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// RequireAdmin rejects sessions without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", service.ErrForbidden.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}
