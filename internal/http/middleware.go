package httpapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/bilalinbytes/aiims-ild-clinic-monitor/internal/auth"
)

// Authenticate requires a bearer token bound to an open session and stores the
// caller identity on the request context.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, Fail("missing bearer token"))
			return
		}
		sess, err := h.auth.Authenticate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, Fail(auth.ErrInvalidToken.Error()))
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), sess.Identity)))
	})
}

// RequireRole rejects authenticated callers of any other role with 403.
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, Fail("not authenticated"))
				return
			}
			if id.Role != role {
				writeJSON(w, http.StatusForbidden, Fail("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewLoginLimiter allows perMinute attempts per IP, refilled evenly over the minute.
func NewLoginLimiter(perMinute int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (l *LoginLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (l *LoginLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(getClientIP(r)).Allow() {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, Fail("too many login attempts"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// identity is only called behind Authenticate.
func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}
