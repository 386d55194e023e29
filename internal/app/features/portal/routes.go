// internal/app/features/portal/routes.go
package portal

import (
	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.LoadSessionUser)

	// Snapshot reads are open: guests browse clubs and events too.
	r.Get("/snapshot", h.Snapshot)
	r.Get("/clubs/{clubID}/events", h.ClubEvents)

	// Everything else requires a session.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// CLUB WRITES
		pr.Post("/clubs/{clubID}/events", h.CreateClubEvent)
		pr.Patch("/clubs/{clubID}/events/{eventID}", h.UpdateClubEvent)
		pr.Patch("/clubs/{clubID}", h.UpdateClub)

		// APPLICATIONS
		pr.Get("/clubs/{clubID}/applications", h.ClubApplications)
		pr.Post("/clubs/{clubID}/applications", h.Apply)
		pr.Post("/clubs/{clubID}/applications/{appID}/accept", h.AcceptApplication)
		pr.Post("/clubs/{clubID}/applications/{appID}/reject", h.RejectApplication)

		// PROFILE
		pr.Patch("/users/{userID}/profile", h.UpdateProfile)

		// STUDENT LOOKUP
		pr.Get("/students/{rollNumber}", h.Student)
	})

	// ADMIN: content seeding.
	r.Group(func(ar chi.Router) {
		ar.Use(auth.RequireRole(models.RoleAdmin))

		ar.Get("/admin/seed/status", h.SeedStatus)
		ar.Post("/admin/seed/{collection}", h.Seed)
	})

	return r
}
