package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Repeated calls accumulate parameters on the same route context.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateClub inserts a club with the given name and returns it.
func (f *Fixtures) CreateClub(ctx context.Context, name string) models.Club {
	f.t.Helper()

	now := time.Now().UTC()
	club := models.Club{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		Category:  "technical",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("clubs").InsertOne(ctx, club); err != nil {
		f.t.Fatalf("fixture: insert club: %v", err)
	}
	return club
}

// CreateUser inserts a user with the given name, email, and role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	u := models.User{
		ID:    primitive.NewObjectID().Hex(),
		Name:  name,
		Email: email,
		Role:  role,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("fixture: insert user: %v", err)
	}
	return u
}

// CreateClubEvent inserts an event under the given club.
func (f *Fixtures) CreateClubEvent(ctx context.Context, clubID, title string, date time.Time, status string) models.Event {
	f.t.Helper()

	e := models.Event{
		ID:              primitive.NewObjectID().Hex(),
		ClubID:          clubID,
		OrganizerClubID: clubID,
		Title:           title,
		Date:            date,
		Status:          status,
	}
	if _, err := f.db.Collection("club_events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("fixture: insert club event: %v", err)
	}
	return e
}

// CreateClubApplication inserts an application in the current layout.
func (f *Fixtures) CreateClubApplication(ctx context.Context, clubID, userID, userName string) models.Application {
	f.t.Helper()

	a := models.Application{
		ID:        primitive.NewObjectID().Hex(),
		ClubID:    clubID,
		UserID:    userID,
		UserName:  userName,
		Status:    models.ApplicationPending,
		AppliedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("club_applications").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("fixture: insert club application: %v", err)
	}
	return a
}

// CreateLegacyApplication inserts an application in the legacy top-level
// layout. clubID may be any scalar; older records stored numbers.
func (f *Fixtures) CreateLegacyApplication(ctx context.Context, clubID interface{}, userName string) string {
	f.t.Helper()

	id := primitive.NewObjectID().Hex()
	doc := bson.M{
		"_id":        id,
		"club_id":    clubID,
		"user_name":  userName,
		"status":     models.ApplicationPending,
		"applied_at": time.Now().UTC(),
	}
	if _, err := f.db.Collection("applications").InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("fixture: insert legacy application: %v", err)
	}
	return id
}

// CreateNotification inserts a notification for the given user.
func (f *Fixtures) CreateNotification(ctx context.Context, userID, message string) models.Notification {
	f.t.Helper()

	n := models.Notification{
		ID:        primitive.NewObjectID().Hex(),
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("notifications").InsertOne(ctx, n); err != nil {
		f.t.Fatalf("fixture: insert notification: %v", err)
	}
	return n
}
