// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store reads and writes club events.
//
// Events are children of clubs: every document in club_events carries its
// owning club in club_id. Reads never fail hard; anything that goes wrong
// is logged and degrades to an empty result so the portal can render with
// partial data.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{c: db.Collection("club_events"), log: logger}
}

// ListAll reads every club's events in one collection-group scan rather
// than iterating clubs, since club count grows while this stays one query.
// Records that predate the organizer_club_id field get it backfilled from
// the storage parent; callers can rely on it always being set.
func (s *Store) ListAll(ctx context.Context) []models.Event {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("listing club events", zap.Error(err))
		return nil
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		s.log.Error("decoding club events", zap.Error(err))
		return nil
	}
	for i := range events {
		if events[i].OrganizerClubID == "" {
			events[i].OrganizerClubID = events[i].ClubID
		}
	}
	return events
}

// ListByClub reads one club's event subcollection.
func (s *Store) ListByClub(ctx context.Context, clubID string) []models.Event {
	cur, err := s.c.Find(ctx, bson.M{"club_id": clubID})
	if err != nil {
		s.log.Error("listing events for club", zap.String("club_id", clubID), zap.Error(err))
		return nil
	}
	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		s.log.Error("decoding events for club", zap.String("club_id", clubID), zap.Error(err))
		return nil
	}
	for i := range events {
		if events[i].OrganizerClubID == "" {
			events[i].OrganizerClubID = clubID
		}
	}
	return events
}

// Create writes a new event under the owning club, stamping the organizer
// reference explicitly and deriving status from the event date.
func (s *Store) Create(ctx context.Context, clubID string, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID().Hex()
	e.ClubID = clubID
	e.OrganizerClubID = clubID
	e.Status = StatusForDate(e.Date, time.Now().UTC())

	doc, err := toDoc(e)
	if err != nil {
		return models.Event{}, err
	}
	if _, err := s.c.InsertOne(ctx, sanitize.Clean(doc)); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update applies a partial update to one club event. A markAsPast key in
// the updates is a command, not a field: it becomes status=past and is
// stripped before the write.
func (s *Store) Update(ctx context.Context, clubID, eventID string, updates bson.M) error {
	payload := sanitize.Clean(updates)
	if mark, ok := payload["markAsPast"]; ok {
		if b, _ := mark.(bool); b {
			payload["status"] = models.EventPast
		}
		delete(payload, "markAsPast")
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID, "club_id": clubID},
		bson.M{"$set": payload})
	return err
}

// StatusForDate classifies an event date against now: strictly in the
// future is upcoming, the same calendar day is ongoing, everything else is
// past. The future check runs first, so an event later today is upcoming.
func StatusForDate(date, now time.Time) string {
	if date.After(now) {
		return models.EventUpcoming
	}
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return models.EventOngoing
	}
	return models.EventPast
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
