// internal/app/store/content/seed.go
package contentstore

import (
	"context"

	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// SeedableCollections are the collections the starter-data seeder may
// populate on a fresh deployment.
var SeedableCollections = []string{
	"clubs",
	"club_events",
	"users",
	"leadership",
	"annual_events",
	"news",
	"external_events",
	"notifications",
	"applications",
}

// Seeded reports, per seedable collection, whether it already holds data.
// Collections that cannot be counted report false.
func (s *Store) Seeded(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(SeedableCollections))
	for _, name := range SeedableCollections {
		n, err := s.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			s.log.Warn("counting collection for seed check",
				zap.String("collection", name), zap.Error(err))
			out[name] = false
			continue
		}
		out[name] = n > 0
	}
	return out
}

// Seed inserts starter documents into one collection. Each insert is
// independent: a failed document is logged and skipped, never aborting
// the rest. Returns how many documents were inserted.
func (s *Store) Seed(ctx context.Context, collection string, docs []bson.M) int {
	c := s.db.Collection(collection)
	inserted := 0
	for _, doc := range docs {
		payload := sanitize.Clean(doc)
		if _, present := payload["_id"]; !present {
			payload["_id"] = primitive.NewObjectID().Hex()
		}
		if _, err := c.InsertOne(ctx, payload); err != nil {
			s.log.Error("seeding document",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		inserted++
	}
	return inserted
}
