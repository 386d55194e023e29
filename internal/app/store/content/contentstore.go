// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store reads the leaf collections the portal renders as-is: leadership,
// annual events, news, external events, and notifications. None of these
// participate in multi-document writes, and all reads degrade to empty on
// failure.
type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

// Leadership returns the student leadership roster.
func (s *Store) Leadership(ctx context.Context) []models.LeadershipMember {
	var out []models.LeadershipMember
	s.list(ctx, "leadership", &out)
	return out
}

// AnnualEvents returns the flagship annual events.
func (s *Store) AnnualEvents(ctx context.Context) []models.AnnualEvent {
	var out []models.AnnualEvent
	s.list(ctx, "annual_events", &out)
	return out
}

// News returns campus news articles.
func (s *Store) News(ctx context.Context) []models.NewsArticle {
	var out []models.NewsArticle
	s.list(ctx, "news", &out)
	return out
}

// ExternalEvents returns events hosted by other institutions.
func (s *Store) ExternalEvents(ctx context.Context) []models.ExternalEvent {
	var out []models.ExternalEvent
	s.list(ctx, "external_events", &out)
	return out
}

// Notifications returns every notification. Identity-gated in production;
// permission failures degrade to empty like any other read failure.
func (s *Store) Notifications(ctx context.Context) []models.Notification {
	var out []models.Notification
	s.list(ctx, "notifications", &out)
	return out
}

// NotificationsForUser returns one user's notifications.
func (s *Store) NotificationsForUser(ctx context.Context, userID string) []models.Notification {
	var out []models.Notification
	s.find(ctx, "notifications", bson.M{"user_id": userID}, &out)
	return out
}

func (s *Store) list(ctx context.Context, collection string, out interface{}) {
	s.find(ctx, collection, bson.M{}, out)
}

func (s *Store) find(ctx context.Context, collection string, filter bson.M, out interface{}) {
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		s.log.Error("listing collection", zap.String("collection", collection), zap.Error(err))
		return
	}
	if err := cur.All(ctx, out); err != nil {
		s.log.Error("decoding collection", zap.String("collection", collection), zap.Error(err))
	}
}
