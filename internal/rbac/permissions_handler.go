package rbac

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/storelane/storelane/internal/platform/httpx"
)

// PermissionsHandler exposes the capability catalogue so role-editing
// screens render checkboxes from the server's list instead of hardcoding it.
type PermissionsHandler struct {
	Middleware Middleware
}

// MountRoutes registers the permissions routes.
func (h *PermissionsHandler) MountRoutes(r chi.Router) {
	r.With(h.Middleware.Require(CapRoleView)).Get("/", h.List)
}

// List returns every known capability token.
func (h *PermissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	caps := All()
	httpx.List(w, caps, len(caps), nil)
}
