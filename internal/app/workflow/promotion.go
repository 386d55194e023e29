// internal/app/workflow/promotion.go

// Package workflow implements the accept-and-promote sequence that turns a
// pending club application into an accepted one and a new coordinator.
//
// The three documents it touches (application, club, user profile) live in
// independent collections with no transaction wrapping them. The policy is
// deliberate and asymmetric: the status update is the primary write and
// its failure fails the workflow; the later team and profile steps are
// bookkeeping that never rolls the accepted status back. Callers get a
// Result telling them exactly which steps ran, so a failed step can be
// retried on its own.
package workflow

import (
	"context"
	"errors"

	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ErrApplicationNotFound is returned when the referenced application does
// not exist under the club.
var ErrApplicationNotFound = errors.New("application not found")

// Applications is the slice of the application store the workflow needs.
type Applications interface {
	GetForClub(ctx context.Context, clubID, appID string) (*models.Application, error)
	SetStatus(ctx context.Context, clubID, appID, status string) error
}

// Clubs is the slice of the club store the workflow needs.
type Clubs interface {
	GetByID(ctx context.Context, clubID string) *models.Club
	SetTeam(ctx context.Context, clubID string, team []models.TeamMember) error
}

// Users is the slice of the user store the workflow needs.
type Users interface {
	GetByID(ctx context.Context, userID string) *models.User
	UpdateProfile(ctx context.Context, userID string, updates bson.M) error
}

// Step outcomes for the two best-effort tail steps.
type Step struct {
	Attempted bool
	Done      bool
	Err       error
}

// Result records how far the workflow got. Accepted is true once the
// status write succeeded; everything after that is best effort.
type Result struct {
	Accepted bool
	Team     Step
	Profile  Step
}

// Promoter runs the accept-and-promote sequence.
type Promoter struct {
	apps  Applications
	clubs Clubs
	users Users
	log   *zap.Logger
}

func NewPromoter(apps Applications, clubs Clubs, users Users, logger *zap.Logger) *Promoter {
	return &Promoter{apps: apps, clubs: clubs, users: users, log: logger}
}

// AcceptAndPromote accepts the application and promotes the applicant, in
// strict sequence:
//
//  1. load the application (missing means ErrApplicationNotFound);
//  2. set its status to accepted — the primary write;
//  3. append the applicant to the club team as Coordinator if absent,
//     rewriting the full team array (skipped with a warning if the result
//     would somehow be empty, which appending never legitimately yields);
//  4. promote the applicant's profile: contributor unless already admin,
//     club added to managedClubIds.
//
// Steps 3 and 4 swallow their own failures; the returned Result says what
// actually happened. A non-nil error means the application was never
// accepted.
func (p *Promoter) AcceptAndPromote(ctx context.Context, clubID, appID string) (Result, error) {
	var res Result

	app, err := p.apps.GetForClub(ctx, clubID, appID)
	if err != nil {
		return res, err
	}
	if app == nil {
		return res, ErrApplicationNotFound
	}

	if err := p.apps.SetStatus(ctx, clubID, appID, models.ApplicationAccepted); err != nil {
		return res, err
	}
	res.Accepted = true

	res.Team = p.addToTeam(ctx, clubID, app)
	res.Profile = p.promoteProfile(ctx, clubID, app.UserID)
	return res, nil
}

func (p *Promoter) addToTeam(ctx context.Context, clubID string, app *models.Application) Step {
	step := Step{Attempted: true}

	club := p.clubs.GetByID(ctx, clubID)
	if club == nil {
		step.Err = errors.New("club not found")
		p.log.Warn("promotion: club lookup failed",
			zap.String("club_id", clubID), zap.Error(step.Err))
		return step
	}

	memberID := app.UserID
	if memberID == "" {
		// Applications from before account linking carry only a name.
		memberID = app.UserName
	}
	for _, m := range club.Team {
		if m.ID == memberID {
			step.Done = true
			return step
		}
	}

	team := append(append([]models.TeamMember(nil), club.Team...), models.TeamMember{
		ID:       memberID,
		Name:     app.UserName,
		Position: "Coordinator",
	})
	if len(team) == 0 {
		p.log.Warn("promotion: skipped team update, array would be empty",
			zap.String("club_id", clubID))
		return step
	}

	if err := p.clubs.SetTeam(ctx, clubID, team); err != nil {
		step.Err = err
		p.log.Warn("promotion: team update failed",
			zap.String("club_id", clubID), zap.Error(err))
		return step
	}
	step.Done = true
	return step
}

func (p *Promoter) promoteProfile(ctx context.Context, clubID, userID string) Step {
	var step Step
	if userID == "" {
		return step
	}
	step.Attempted = true

	profile := p.users.GetByID(ctx, userID)
	if profile == nil {
		p.log.Warn("promotion: user profile not found", zap.String("user_id", userID))
		return step
	}

	role := models.RoleContributor
	if profile.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	managed := profile.ManagedClubIDs
	found := false
	for _, id := range managed {
		if id == clubID {
			found = true
			break
		}
	}
	if !found {
		managed = append(append([]string(nil), managed...), clubID)
	}

	err := p.users.UpdateProfile(ctx, userID, bson.M{
		"role":           role,
		"managedClubIds": managed,
	})
	if err != nil {
		step.Err = err
		p.log.Warn("promotion: profile update failed",
			zap.String("user_id", userID), zap.Error(err))
		return step
	}
	step.Done = true
	return step
}
