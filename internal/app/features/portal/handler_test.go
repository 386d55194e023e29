package portal_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/clubhub/internal/app/features/portal"
	"github.com/dalemusser/clubhub/internal/app/orchestrator"
	"github.com/dalemusser/clubhub/internal/app/realtime"
	applicationstore "github.com/dalemusser/clubhub/internal/app/store/applications"
	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	contentstore "github.com/dalemusser/clubhub/internal/app/store/content"
	eventstore "github.com/dalemusser/clubhub/internal/app/store/events"
	userstore "github.com/dalemusser/clubhub/internal/app/store/users"
	"github.com/dalemusser/clubhub/internal/app/workflow"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type noopListeners struct{}

func (noopListeners) Attach(ctx context.Context, userID string, h realtime.Hooks) {}
func (noopListeners) Detach()                                                     {}

func setupHandler(t *testing.T, db *mongo.Database) (*portal.Handler, *orchestrator.Orchestrator) {
	t.Helper()
	log := zap.NewNop()

	events := eventstore.New(db, log)
	clubs := clubstore.New(db, log)
	apps := applicationstore.New(db, log)
	users := userstore.New(db, log)
	content := contentstore.New(db, log)
	promoter := workflow.NewPromoter(apps, clubs, users, log)

	orch := orchestrator.New(orchestrator.Config{
		Loader:    orchestrator.NewStoreLoader(events, clubs, apps, content),
		Listeners: noopListeners{},
		Logger:    log,
	})
	t.Cleanup(orch.Close)

	h := portal.NewHandler(orch, events, clubs, apps, users, content, promoter, log)
	return h, orch
}

func TestSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, orch := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateClub(ctx, "Robotics Club")
	orch.Start()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c, _, _ := orch.Phases(); c == orchestrator.PhaseDone {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	req := httptest.NewRequest(http.MethodGet, "/portal/snapshot", nil)
	rec := httptest.NewRecorder()
	h.Snapshot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var body struct {
		Clubs     []models.Club `json:"clubs"`
		IsLoading bool          `json:"is_loading"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Clubs) != 1 {
		t.Errorf("clubs in snapshot: got %d, want 1", len(body.Clubs))
	}
	if body.IsLoading {
		t.Error("critical phase is done, is_loading should be false")
	}
}

func TestCreateClubEvent_AdminAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Chess Club")

	payload, _ := json.Marshal(map[string]interface{}{
		"title": "Rapid Tournament",
		"date":  time.Now().UTC().AddDate(0, 0, 3).Format(time.RFC3339),
		"venue": "Hall B",
	})
	req := httptest.NewRequest(http.MethodPost, "/portal/clubs/"+club.ID+"/events", bytes.NewReader(payload))
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "clubID", club.ID)
	rec := httptest.NewRecorder()

	h.CreateClubEvent(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Event
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != models.EventUpcoming {
		t.Errorf("status: got %q, want %q", created.Status, models.EventUpcoming)
	}
	if created.OrganizerClubID != club.ID {
		t.Errorf("organizer: got %q", created.OrganizerClubID)
	}
}

func TestCreateClubEvent_StudentForbidden(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Chess Club")

	req := httptest.NewRequest(http.MethodPost, "/portal/clubs/"+club.ID+"/events", bytes.NewReader([]byte(`{}`)))
	req = testutil.WithUser(req, testutil.StudentUser())
	req = testutil.WithChiURLParam(req, "clubID", club.ID)
	rec := httptest.NewRecorder()

	h.CreateClubEvent(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestCreateClubEvent_ContributorScopedToManagedClubs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	managed := fixtures.CreateClub(ctx, "Managed Club")
	other := fixtures.CreateClub(ctx, "Other Club")

	contributor := fixtures.CreateUser(ctx, "Coord", "coord@campus.edu", models.RoleContributor)
	if _, err := db.Collection("users").UpdateOne(ctx,
		bson.M{"_id": contributor.ID},
		bson.M{"$set": bson.M{"managed_club_ids": []string{managed.ID}}}); err != nil {
		t.Fatalf("grant club: %v", err)
	}
	tu := testutil.TestUser{ID: contributor.ID, Name: contributor.Name, Role: models.RoleContributor}

	payload := []byte(`{"title":"Workshop","date":"2030-01-15T10:00:00Z"}`)

	req := httptest.NewRequest(http.MethodPost, "/portal/clubs/"+managed.ID+"/events", bytes.NewReader(payload))
	req = testutil.WithUser(req, tu)
	req = testutil.WithChiURLParam(req, "clubID", managed.ID)
	rec := httptest.NewRecorder()
	h.CreateClubEvent(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("managed club: got %d, want 201", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/portal/clubs/"+other.ID+"/events", bytes.NewReader(payload))
	req = testutil.WithUser(req, tu)
	req = testutil.WithChiURLParam(req, "clubID", other.ID)
	rec = httptest.NewRecorder()
	h.CreateClubEvent(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other club: got %d, want 403", rec.Code)
	}
}

func TestAcceptApplication_ReportsStepOutcomes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Drama Club")
	applicant := fixtures.CreateUser(ctx, "Nina", "nina@campus.edu", models.RoleStudent)
	app := fixtures.CreateClubApplication(ctx, club.ID, applicant.ID, applicant.Name)

	req := httptest.NewRequest(http.MethodPost,
		"/portal/clubs/"+club.ID+"/applications/"+app.ID+"/accept", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "clubID", club.ID)
	req = testutil.WithChiURLParam(req, "appID", app.ID)
	rec := httptest.NewRecorder()

	h.AcceptApplication(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Accepted       bool `json:"accepted"`
		TeamUpdated    bool `json:"team_updated"`
		ProfileUpdated bool `json:"profile_updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Accepted || !body.TeamUpdated || !body.ProfileUpdated {
		t.Errorf("expected all steps done: %+v", body)
	}

	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": applicant.ID}).Decode(&u); err != nil {
		t.Fatalf("find applicant: %v", err)
	}
	if u.Role != models.RoleContributor {
		t.Errorf("applicant role: got %q", u.Role)
	}
}

func TestAcceptApplication_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, _ := setupHandler(t, db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Drama Club")

	req := httptest.NewRequest(http.MethodPost,
		"/portal/clubs/"+club.ID+"/applications/missing/accept", nil)
	req = testutil.WithUser(req, testutil.AdminUser())
	req = testutil.WithChiURLParam(req, "clubID", club.ID)
	req = testutil.WithChiURLParam(req, "appID", "missing")
	rec := httptest.NewRecorder()

	h.AcceptApplication(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", rec.Code)
	}
}
