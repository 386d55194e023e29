// internal/app/features/portal/seed.go
package portal

import (
	"context"
	"encoding/json"
	"net/http"

	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
)

// SeedStatus handles GET /portal/admin/seed/status, reporting which
// seedable collections already hold data.
func (h *Handler) SeedStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	writeJSON(w, http.StatusOK, h.Content.Seeded(ctx))
}

// Seed handles POST /portal/admin/seed/{collection}. The body is a JSON
// array of documents to insert into the named collection.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	if !seedable(collection) {
		http.Error(w, "unknown collection", http.StatusBadRequest)
		return
	}

	var docs []bson.M
	if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	inserted := h.Content.Seed(ctx, collection, docs)
	writeJSON(w, http.StatusOK, map[string]int{"inserted": inserted})
}

func seedable(name string) bool {
	for _, c := range contentstore.SeedableCollections {
		if c == name {
			return true
		}
	}
	return false
}
