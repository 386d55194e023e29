package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/workflow"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type fakeApps struct {
	apps      map[string]*models.Application
	statusErr error
	statuses  map[string]string
}

func (f *fakeApps) GetForClub(ctx context.Context, clubID, appID string) (*models.Application, error) {
	app, ok := f.apps[appID]
	if !ok {
		return nil, workflow.ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeApps) SetStatus(ctx context.Context, clubID, appID, status string) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	if f.statuses == nil {
		f.statuses = map[string]string{}
	}
	f.statuses[appID] = status
	return nil
}

type fakeClubs struct {
	clubs   map[string]*models.Club
	teamErr error
	setTeam []models.TeamMember
}

func (f *fakeClubs) GetByID(ctx context.Context, clubID string) *models.Club {
	return f.clubs[clubID]
}

func (f *fakeClubs) SetTeam(ctx context.Context, clubID string, team []models.TeamMember) error {
	if f.teamErr != nil {
		return f.teamErr
	}
	f.setTeam = team
	return nil
}

type fakeUsers struct {
	users      map[string]*models.User
	profileErr error
	updated    map[string]bson.M
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) *models.User {
	return f.users[userID]
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, userID string, updates bson.M) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	if f.updated == nil {
		f.updated = map[string]bson.M{}
	}
	f.updated[userID] = updates
	return nil
}

func pendingApplication() *models.Application {
	return &models.Application{
		ID:       "a1",
		ClubID:   "c1",
		UserID:   "u9",
		UserName: "Nina",
		Status:   models.ApplicationPending,
	}
}

func TestAcceptAndPromote_FullSequence(t *testing.T) {
	apps := &fakeApps{apps: map[string]*models.Application{"a1": pendingApplication()}}
	clubs := &fakeClubs{clubs: map[string]*models.Club{
		"c1": {ID: "c1", Name: "Robotics", Team: []models.TeamMember{
			{ID: "u1", Name: "Lead", Position: "President"},
		}},
	}}
	users := &fakeUsers{users: map[string]*models.User{
		"u9": {ID: "u9", Name: "Nina", Role: models.RoleStudent},
	}}

	p := workflow.NewPromoter(apps, clubs, users, zap.NewNop())
	res, err := p.AcceptAndPromote(context.Background(), "c1", "a1")
	if err != nil {
		t.Fatalf("AcceptAndPromote failed: %v", err)
	}

	if !res.Accepted {
		t.Error("expected Accepted")
	}
	if apps.statuses["a1"] != models.ApplicationAccepted {
		t.Errorf("status: got %q", apps.statuses["a1"])
	}

	if !res.Team.Attempted || !res.Team.Done || res.Team.Err != nil {
		t.Errorf("team step: %+v", res.Team)
	}
	if len(clubs.setTeam) != 2 {
		t.Fatalf("team: got %d members, want 2", len(clubs.setTeam))
	}
	added := clubs.setTeam[1]
	if added.ID != "u9" || added.Name != "Nina" || added.Position != "Coordinator" {
		t.Errorf("appended member: %+v", added)
	}

	if !res.Profile.Attempted || !res.Profile.Done || res.Profile.Err != nil {
		t.Errorf("profile step: %+v", res.Profile)
	}
	update := users.updated["u9"]
	if update["role"] != models.RoleContributor {
		t.Errorf("role: got %v", update["role"])
	}
	managed, _ := update["managedClubIds"].([]string)
	if len(managed) != 1 || managed[0] != "c1" {
		t.Errorf("managedClubIds: got %v", update["managedClubIds"])
	}
}

func TestAcceptAndPromote_MissingApplication(t *testing.T) {
	apps := &fakeApps{apps: map[string]*models.Application{}}
	p := workflow.NewPromoter(apps, &fakeClubs{}, &fakeUsers{}, zap.NewNop())

	res, err := p.AcceptAndPromote(context.Background(), "c1", "missing")
	if !errors.Is(err, workflow.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if res.Accepted {
		t.Error("nothing should have been accepted")
	}
}

func TestAcceptAndPromote_StatusWriteFails(t *testing.T) {
	boom := errors.New("write failed")
	apps := &fakeApps{
		apps:      map[string]*models.Application{"a1": pendingApplication()},
		statusErr: boom,
	}
	clubs := &fakeClubs{clubs: map[string]*models.Club{"c1": {ID: "c1"}}}
	p := workflow.NewPromoter(apps, clubs, &fakeUsers{}, zap.NewNop())

	res, err := p.AcceptAndPromote(context.Background(), "c1", "a1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected status error, got %v", err)
	}
	if res.Accepted || res.Team.Attempted || res.Profile.Attempted {
		t.Errorf("no later step may run after the primary write fails: %+v", res)
	}
}

func TestAcceptAndPromote_TeamFailureDoesNotUndoAccept(t *testing.T) {
	apps := &fakeApps{apps: map[string]*models.Application{"a1": pendingApplication()}}
	clubs := &fakeClubs{
		clubs:   map[string]*models.Club{"c1": {ID: "c1"}},
		teamErr: errors.New("team write failed"),
	}
	users := &fakeUsers{users: map[string]*models.User{
		"u9": {ID: "u9", Name: "Nina", Role: models.RoleStudent},
	}}

	p := workflow.NewPromoter(apps, clubs, users, zap.NewNop())
	res, err := p.AcceptAndPromote(context.Background(), "c1", "a1")
	if err != nil {
		t.Fatalf("AcceptAndPromote failed: %v", err)
	}

	if !res.Accepted {
		t.Error("acceptance must survive a team failure")
	}
	if !res.Team.Attempted || res.Team.Done || res.Team.Err == nil {
		t.Errorf("team step should report its failure: %+v", res.Team)
	}
	if !res.Profile.Done {
		t.Errorf("profile step should still run: %+v", res.Profile)
	}
}

func TestAcceptAndPromote_AlreadyOnTeam(t *testing.T) {
	apps := &fakeApps{apps: map[string]*models.Application{"a1": pendingApplication()}}
	clubs := &fakeClubs{clubs: map[string]*models.Club{
		"c1": {ID: "c1", Team: []models.TeamMember{
			{ID: "u9", Name: "Nina", Position: "Coordinator"},
		}},
	}}
	users := &fakeUsers{users: map[string]*models.User{
		"u9": {ID: "u9", Role: models.RoleContributor, ManagedClubIDs: []string{"c1"}},
	}}

	p := workflow.NewPromoter(apps, clubs, users, zap.NewNop())
	res, err := p.AcceptAndPromote(context.Background(), "c1", "a1")
	if err != nil {
		t.Fatalf("AcceptAndPromote failed: %v", err)
	}

	if !res.Team.Done {
		t.Errorf("existing membership counts as done: %+v", res.Team)
	}
	if clubs.setTeam != nil {
		t.Error("no team rewrite expected when the member is already present")
	}
	managed, _ := users.updated["u9"]["managedClubIds"].([]string)
	if len(managed) != 1 {
		t.Errorf("club must not be duplicated in managedClubIds: %v", managed)
	}
}

func TestAcceptAndPromote_LegacyNameOnlyApplication(t *testing.T) {
	app := pendingApplication()
	app.UserID = ""
	apps := &fakeApps{apps: map[string]*models.Application{"a1": app}}
	clubs := &fakeClubs{clubs: map[string]*models.Club{"c1": {ID: "c1"}}}
	users := &fakeUsers{}

	p := workflow.NewPromoter(apps, clubs, users, zap.NewNop())
	res, err := p.AcceptAndPromote(context.Background(), "c1", "a1")
	if err != nil {
		t.Fatalf("AcceptAndPromote failed: %v", err)
	}

	if len(clubs.setTeam) != 1 || clubs.setTeam[0].ID != "Nina" {
		t.Errorf("name fallback member id: %+v", clubs.setTeam)
	}
	if res.Profile.Attempted {
		t.Error("profile step must be skipped without a user id")
	}
}

func TestAcceptAndPromote_AdminKeepsRole(t *testing.T) {
	apps := &fakeApps{apps: map[string]*models.Application{"a1": pendingApplication()}}
	clubs := &fakeClubs{clubs: map[string]*models.Club{"c1": {ID: "c1"}}}
	users := &fakeUsers{users: map[string]*models.User{
		"u9": {ID: "u9", Role: models.RoleAdmin},
	}}

	p := workflow.NewPromoter(apps, clubs, users, zap.NewNop())
	if _, err := p.AcceptAndPromote(context.Background(), "c1", "a1"); err != nil {
		t.Fatalf("AcceptAndPromote failed: %v", err)
	}

	if users.updated["u9"]["role"] != models.RoleAdmin {
		t.Errorf("admin must not be demoted: got %v", users.updated["u9"]["role"])
	}
}
