package interauth

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prapeller/readadvance.backend/internal/api/shared"
)

// Middleware guards the internal-only HTTP surface. Every request must
// present a valid (X-Timestamp, X-HMAC-Signature) pair before any business
// logic runs.
type Middleware struct {
	secret   string
	maxSkew  time.Duration
	timeFunc func() time.Time // Injectable for testing
	logger   *slog.Logger
}

// NewMiddleware creates a Middleware with the given shared secret.
// A non-positive maxSkew falls back to DefaultMaxSkew.
func NewMiddleware(secret string, maxSkew time.Duration, logger *slog.Logger) *Middleware {
	if maxSkew <= 0 {
		maxSkew = DefaultMaxSkew
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Middleware{
		secret:   secret,
		maxSkew:  maxSkew,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "interauth")),
	}
}

// Authenticate validates the signed request headers. Missing headers, a
// malformed or stale timestamp, and a digest mismatch all produce the same
// response; only the log line tells them apart, so the middleware does not
// act as an oracle for probing clients.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tsHeader := r.Header.Get(TimestampHeader)
		digest := r.Header.Get(SignatureHeader)

		if tsHeader == "" || digest == "" {
			m.logger.Warn("missing signature headers",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("path", r.URL.Path))
			m.reject(w, r)
			return
		}

		timestamp, err := strconv.ParseInt(tsHeader, 10, 64)
		if err != nil {
			m.logger.Warn("malformed timestamp header",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("timestamp", tsHeader))
			m.reject(w, r)
			return
		}

		if !Verify(m.secret, timestamp, digest, m.timeFunc(), m.maxSkew) {
			m.logger.Warn("signature verification failed",
				slog.String("remote_addr", r.RemoteAddr),
				slog.Int64("timestamp", timestamp))
			m.reject(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) reject(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid request signature")
}
