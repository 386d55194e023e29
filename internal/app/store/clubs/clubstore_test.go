package clubstore_test

import (
	"errors"
	"testing"

	clubstore "github.com/dalemusser/clubhub/internal/app/store/clubs"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/clubhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestStore_Update_PreservesTeamWhenOmitted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Photography Club")
	team := []models.TeamMember{{ID: "u1", Name: "Asha", Position: "President"}}
	if err := store.SetTeam(ctx, club.ID, team); err != nil {
		t.Fatalf("SetTeam failed: %v", err)
	}

	// Update without a team field: the stored team must survive.
	if err := store.Update(ctx, club.ID, bson.M{"description": "We shoot film."}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored := store.GetByID(ctx, club.ID)
	if stored == nil {
		t.Fatal("club disappeared after update")
	}
	if len(stored.Team) != 1 || stored.Team[0].Name != "Asha" {
		t.Errorf("team not preserved: got %+v", stored.Team)
	}
	if stored.Description != "We shoot film." {
		t.Errorf("description: got %q", stored.Description)
	}
}

func TestStore_Update_RejectsIncompleteMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Debate Society")

	err := store.Update(ctx, club.ID, bson.M{
		"description": "should not be written",
		"team": bson.A{
			bson.M{"id": "u1", "name": "Ravi", "position": "Secretary"},
			bson.M{"id": "u2", "name": "  ", "position": "Treasurer"},
		},
	})
	if !errors.Is(err, clubstore.ErrInvalidTeamMember) {
		t.Fatalf("expected ErrInvalidTeamMember, got %v", err)
	}

	// The rejection must happen before any write.
	stored := store.GetByID(ctx, club.ID)
	if stored == nil {
		t.Fatal("club missing")
	}
	if stored.Description != "" {
		t.Errorf("update was partially applied: description %q", stored.Description)
	}
}

func TestStore_Update_SkipsEmptyMemberDocs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Astronomy Club")

	err := store.Update(ctx, club.ID, bson.M{
		"team": bson.A{
			bson.M{"id": "u1", "name": "Meera", "position": "Lead"},
			bson.M{"id": nil, "name": "", "position": nil},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored := store.GetByID(ctx, club.ID)
	if stored == nil {
		t.Fatal("club missing")
	}
	if len(stored.Team) != 1 {
		t.Fatalf("expected the empty member doc to be dropped, got %+v", stored.Team)
	}
}

func TestStore_Update_SyncsTeamProfiles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Coding Club")
	student := fixtures.CreateUser(ctx, "Old Name", "dev@campus.edu", models.RoleStudent)
	admin := fixtures.CreateUser(ctx, "Admin", "admin@campus.edu", models.RoleAdmin)

	err := store.Update(ctx, club.ID, bson.M{
		"team": bson.A{
			bson.M{"id": student.ID, "name": "New Name", "position": "Coordinator"},
			bson.M{"id": admin.ID, "name": "Admin", "position": "Advisor"},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": student.ID}).Decode(&u); err != nil {
		t.Fatalf("find student: %v", err)
	}
	if u.Role != models.RoleContributor {
		t.Errorf("student role: got %q, want %q", u.Role, models.RoleContributor)
	}
	if u.Name != "New Name" {
		t.Errorf("student name not synced: got %q", u.Name)
	}
	found := false
	for _, id := range u.ManagedClubIDs {
		if id == club.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("club %q missing from managed_club_ids %v", club.ID, u.ManagedClubIDs)
	}

	var a models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": admin.ID}).Decode(&a); err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if a.Role != models.RoleAdmin {
		t.Errorf("admin role must not be demoted: got %q", a.Role)
	}
}

func TestStore_Update_UnknownMemberDoesNotFailUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := clubstore.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	club := fixtures.CreateClub(ctx, "Film Club")

	// Member has no user record: the club write still goes through.
	err := store.Update(ctx, club.ID, bson.M{
		"team": bson.A{
			bson.M{"id": "no-such-user", "name": "Ghost", "position": "Editor"},
		},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	stored := store.GetByID(ctx, club.ID)
	if stored == nil || len(stored.Team) != 1 {
		t.Fatalf("team write missing: %+v", stored)
	}
}
