package middleware

import (
	"errors"
	"net/http"

	"github.com/GiorgiUbiria/expense_tracker/internal/auth"
	"github.com/GiorgiUbiria/expense_tracker/internal/httputil"
	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"go.uber.org/zap"
)

// Authenticated rejects requests without a valid bearer token and stores
// the principal in the request context otherwise.
func Authenticated(guard *auth.Guard, exposeErrors bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := guard.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				writeAuthError(w, r, err, exposeErrors)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error, expose bool) {
	switch {
	case errors.Is(err, auth.ErrNoAuthHeader):
		httputil.WriteError(w, http.StatusUnauthorized, "No authorization token")
	case errors.Is(err, auth.ErrNoToken):
		httputil.WriteError(w, http.StatusUnauthorized, "No token found")
	case errors.Is(err, auth.ErrNoSecret):
		logger.Log.Error("jwt secret not configured")
		httputil.WriteError(w, http.StatusInternalServerError, "Server configuration error")
	case errors.Is(err, auth.ErrTokenExpired):
		httputil.WriteError(w, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrTokenInvalid):
		logger.Log.Debug("token rejected", zap.Error(err))
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, auth.ErrTokenPayload):
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid token format")
	case errors.Is(err, auth.ErrUserNotFound):
		httputil.WriteError(w, http.StatusNotFound, "User not found")
	default:
		httputil.ServerError(w, r, err, "Error finding user", expose)
	}
}
