// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a referenced application does not exist.
var ErrNotFound = errors.New("application not found")

// Store reads and writes club-membership applications across the two
// storage layouts that exist in production.
//
// Current layout: club_applications, one document per application with
// club_id as the storage parent. Legacy layout: the top-level applications
// collection, where club_id was written by older clients and is sometimes
// a number instead of a string. There is no migration path between the
// two, so reads have to serve both.
type Store struct {
	clubApps *mongo.Collection
	legacy   *mongo.Collection
	log      *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		clubApps: db.Collection("club_applications"),
		legacy:   db.Collection("applications"),
		log:      logger,
	}
}

// List returns every application from both layouts; failures degrade to
// whatever subset could be read. Anonymous visitors may lack permission
// here, which is treated the same as any other read failure.
func (s *Store) List(ctx context.Context) []models.Application {
	var apps []models.Application

	cur, err := s.clubApps.Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("listing club applications", zap.Error(err))
	} else if err := cur.All(ctx, &apps); err != nil {
		s.log.Error("decoding club applications", zap.Error(err))
		apps = nil
	}

	apps = append(apps, s.scanLegacy(ctx, "")...)
	return apps
}

// ListForClub reads one club's applications, trying the per-club
// subcollection first. If and only if that yields nothing, it falls back
// to scanning the legacy top-level collection and filtering by club id
// coerced to a string, since legacy records sometimes stored it as a
// number. The fallback is an O(total applications) scan and is acceptable
// only because it is the rare path and volume is small.
func (s *Store) ListForClub(ctx context.Context, clubID string) []models.Application {
	cur, err := s.clubApps.Find(ctx, bson.M{"club_id": clubID})
	if err != nil {
		s.log.Error("listing applications for club",
			zap.String("club_id", clubID), zap.Error(err))
		return nil
	}
	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		s.log.Error("decoding applications for club",
			zap.String("club_id", clubID), zap.Error(err))
		return nil
	}
	if len(apps) > 0 {
		return apps
	}

	legacy := s.scanLegacy(ctx, clubID)
	s.log.Info("served club applications from legacy fallback",
		zap.String("club_id", clubID), zap.Int("count", len(legacy)))
	return legacy
}

// scanLegacy reads the legacy top-level collection raw and coerces each
// record's club reference to a string before the optional filter, because
// typed decoding would choke on the numeric club_id values older clients
// wrote.
func (s *Store) scanLegacy(ctx context.Context, clubID string) []models.Application {
	cur, err := s.legacy.Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("scanning legacy applications", zap.Error(err))
		return nil
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		s.log.Error("decoding legacy applications", zap.Error(err))
		return nil
	}

	var apps []models.Application
	for _, doc := range docs {
		app := legacyApplication(doc)
		if clubID != "" && app.ClubID != clubID {
			continue
		}
		apps = append(apps, app)
	}
	return apps
}

func legacyApplication(doc bson.M) models.Application {
	app := models.Application{
		ID:       coerceString(doc["_id"]),
		ClubID:   coerceString(doc["club_id"]),
		UserID:   coerceString(doc["user_id"]),
		UserName: coerceString(doc["user_name"]),
		Status:   coerceString(doc["status"]),
		Message:  coerceString(doc["message"]),
	}
	if at, ok := doc["applied_at"].(primitive.DateTime); ok {
		app.AppliedAt = at.Time()
	}
	return app
}

// coerceString renders any stored scalar as a string so that a legacy
// numeric club_id of 5 matches a query for club "5".
func coerceString(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	default:
		return fmt.Sprint(tv)
	}
}

// ListForUser returns one user's applications across both layouts.
func (s *Store) ListForUser(ctx context.Context, userID string) []models.Application {
	cur, err := s.clubApps.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		s.log.Error("listing applications for user",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		s.log.Error("decoding applications for user",
			zap.String("user_id", userID), zap.Error(err))
		return nil
	}

	for _, app := range s.scanLegacy(ctx, "") {
		if app.UserID == userID {
			apps = append(apps, app)
		}
	}
	return apps
}

// GetForClub loads one application from a club's subcollection.
func (s *Store) GetForClub(ctx context.Context, clubID, appID string) (*models.Application, error) {
	var app models.Application
	err := s.clubApps.FindOne(ctx, bson.M{"_id": appID, "club_id": clubID}).Decode(&app)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateForClub stores a new application under the club's subcollection,
// the current layout for all new records.
func (s *Store) CreateForClub(ctx context.Context, clubID string, app models.Application) (models.Application, error) {
	app.ID = primitive.NewObjectID().Hex()
	app.ClubID = clubID
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	app.AppliedAt = time.Now().UTC()

	doc, err := toDoc(app)
	if err != nil {
		return models.Application{}, err
	}
	if _, err := s.clubApps.InsertOne(ctx, sanitize.Clean(doc)); err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// Create stores an application in the legacy top-level collection. Kept
// for backward compatibility with callers that predate subcollections.
func (s *Store) Create(ctx context.Context, app models.Application) (models.Application, error) {
	app.ID = primitive.NewObjectID().Hex()
	if app.Status == "" {
		app.Status = models.ApplicationPending
	}
	app.AppliedAt = time.Now().UTC()

	doc, err := toDoc(app)
	if err != nil {
		return models.Application{}, err
	}
	if _, err := s.legacy.InsertOne(ctx, sanitize.Clean(doc)); err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// SetStatus updates one club application's status field.
func (s *Store) SetStatus(ctx context.Context, clubID, appID, status string) error {
	payload := sanitize.Clean(bson.M{"status": status})
	res, err := s.clubApps.UpdateOne(ctx,
		bson.M{"_id": appID, "club_id": clubID},
		bson.M{"$set": payload})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
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
