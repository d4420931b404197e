package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/go_pizza/internal/session"
	"github.com/fjod/go_pizza/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// SessionHeader carries the storefront session id in both directions.
const SessionHeader = "X-Session-ID"

type ctxKey int

const sessionKey ctxKey = iota

type SessionStore interface {
	Get(id string) (*session.Session, bool)
	GetOrCreate(id string) (*session.Session, bool)
	Transient() *session.Session
}

// SessionMiddleware attaches the caller's session to the request context.
// Only a mutating request opens a new session when the header is missing or
// stale; reads are answered from a throwaway session and issue no id.
func SessionMiddleware(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			s, ok := store.Get(id)
			switch {
			case ok:
				w.Header().Set(SessionHeader, s.ID())
			case isReadOnly(r.Method):
				s = store.Transient()
			default:
				s, _ = store.GetOrCreate(id)
				log.Debug().Str("session_id", s.ID()).Str("request_id", middleware.GetReqID(r.Context())).Msg("new storefront session")
				w.Header().Set(SessionHeader, s.ID())
			}
			ctx := context.WithValue(r.Context(), sessionKey, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func sessionFromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

// RequestLogger logs one line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logger.FromContext(r.Context()).Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}
