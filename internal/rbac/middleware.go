package rbac

import (
	"net/http"

	"log/slog"

	"github.com/storelane/storelane/internal/platform/httpx"
	"github.com/storelane/storelane/internal/shared"
)

// Middleware wires capability checks into the router.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// Require ensures the current user holds the capability. Unauthenticated
// requests get 401, authenticated ones lacking the token get 403.
func (m Middleware) Require(cap Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := shared.UserIDFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			granted, err := m.Service.EffectiveCapabilities(r.Context(), userID)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("rbac require", slog.Any("error", err))
				}
				httpx.Error(w, http.StatusInternalServerError, "permission check failed")
				return
			}
			if !granted.Has(cap) {
				httpx.Error(w, http.StatusForbidden, http.StatusText(http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
