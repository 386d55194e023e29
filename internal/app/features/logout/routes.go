// internal/app/features/logout/routes.go
package logout

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.LoadSessionUser)
		pr.Use(auth.RequireSignedIn)
		pr.Post("/", h.HandleLogout)
	})

	return r
}
