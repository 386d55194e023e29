// internal/app/store/clubs/clubstore.go
package clubstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrInvalidTeamMember aborts a club update before any network write when
// a team member is missing id, name, or position.
var ErrInvalidTeamMember = errors.New("each team member must have id, name, and position")

// Store reads and writes clubs and keeps team membership consistent with
// user profiles.
//
// The team array is the one field that is always rewritten in full. A
// partial update that omits it would otherwise erase the stored team, so
// Update fetches the current team first when the caller did not send one.
type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
	log   *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		c:     db.Collection("clubs"),
		users: db.Collection("users"),
		log:   logger,
	}
}

// List returns all clubs, or nil after logging if the read fails.
func (s *Store) List(ctx context.Context) []models.Club {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("listing clubs", zap.Error(err))
		return nil
	}
	var clubs []models.Club
	if err := cur.All(ctx, &clubs); err != nil {
		s.log.Error("decoding clubs", zap.Error(err))
		return nil
	}
	return clubs
}

// GetByID returns the club or nil when it is missing or the read fails.
func (s *Store) GetByID(ctx context.Context, clubID string) *models.Club {
	var c models.Club
	if err := s.c.FindOne(ctx, bson.M{"_id": clubID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Warn("club not found", zap.String("club_id", clubID))
		} else {
			s.log.Error("getting club", zap.String("club_id", clubID), zap.Error(err))
		}
		return nil
	}
	return &c
}

// Update applies a partial update to a club document and then syncs the
// team's user profiles.
//
// Team handling: if the caller omitted team, the stored team is carried
// forward unchanged. Every member is cleaned of nil and blank values and
// must end up with id, name, and position populated, or the whole update
// is rejected with ErrInvalidTeamMember before anything is written.
//
// The profile sync afterwards is best effort: each member's user record
// gets the club added to managed_club_ids and a promotion to contributor
// (admin stays admin). One member's failure is logged and swallowed so it
// cannot undo the club write that already succeeded.
func (s *Store) Update(ctx context.Context, clubID string, updates bson.M) error {
	payload := sanitize.Clean(updates)

	team, err := s.resolveTeam(ctx, clubID, payload)
	if err != nil {
		return err
	}
	payload["team"] = team

	if desc, ok := payload["description"].(string); ok {
		payload["description"] = htmlsanitize.Sanitize(desc)
	}
	payload["updated_at"] = time.Now().UTC()

	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": clubID}, bson.M{"$set": payload}); err != nil {
		return err
	}

	s.syncTeamProfiles(ctx, clubID, team)
	return nil
}

// SetTeam overwrites a club's team array with no profile fan-out. The
// promotion workflow uses it for the targeted coordinator append.
func (s *Store) SetTeam(ctx context.Context, clubID string, team []models.TeamMember) error {
	if err := validateTeam(team); err != nil {
		return err
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": clubID},
		bson.M{"$set": bson.M{"team": team, "updated_at": time.Now().UTC()}})
	return err
}

// resolveTeam produces the full team array the update will write: the
// caller's team if present (in typed or raw document form), otherwise the
// currently stored one.
func (s *Store) resolveTeam(ctx context.Context, clubID string, payload bson.M) ([]models.TeamMember, error) {
	raw, present := payload["team"]
	if !present {
		if club := s.GetByID(ctx, clubID); club != nil {
			return club.Team, nil
		}
		return []models.TeamMember{}, nil
	}

	switch tv := raw.(type) {
	case []models.TeamMember:
		if err := validateTeam(tv); err != nil {
			return nil, err
		}
		return tv, nil
	case bson.A:
		return teamFromRaw(tv)
	case []interface{}:
		return teamFromRaw(tv)
	default:
		return nil, ErrInvalidTeamMember
	}
}

func teamFromRaw(raw []interface{}) ([]models.TeamMember, error) {
	team := make([]models.TeamMember, 0, len(raw))
	for _, el := range raw {
		var doc bson.M
		switch ev := el.(type) {
		case bson.M:
			doc = ev
		case map[string]interface{}:
			doc = bson.M(ev)
		default:
			continue
		}
		doc = sanitize.CleanBlank(doc)
		if len(doc) == 0 {
			continue
		}
		m := models.TeamMember{
			ID:       asString(doc["id"]),
			Name:     asString(doc["name"]),
			Position: asString(doc["position"]),
		}
		if m.ID == "" || m.Name == "" || m.Position == "" {
			return nil, ErrInvalidTeamMember
		}
		team = append(team, m)
	}
	return team, nil
}

func validateTeam(team []models.TeamMember) error {
	for _, m := range team {
		if strings.TrimSpace(m.ID) == "" ||
			strings.TrimSpace(m.Name) == "" ||
			strings.TrimSpace(m.Position) == "" {
			return ErrInvalidTeamMember
		}
	}
	return nil
}

func (s *Store) syncTeamProfiles(ctx context.Context, clubID string, team []models.TeamMember) {
	for _, m := range team {
		if m.ID == "" {
			continue
		}
		var u models.User
		if err := s.users.FindOne(ctx, bson.M{"_id": m.ID}).Decode(&u); err != nil {
			if !errors.Is(err, mongo.ErrNoDocuments) {
				s.log.Warn("team profile lookup failed",
					zap.String("user_id", m.ID), zap.Error(err))
			}
			continue
		}

		role := models.RoleContributor
		if u.Role == models.RoleAdmin {
			role = models.RoleAdmin
		}
		update := bson.M{
			"managed_club_ids": appendUnique(u.ManagedClubIDs, clubID),
			"role":             role,
			"name":             m.Name,
		}
		if _, err := s.users.UpdateOne(ctx, bson.M{"_id": m.ID},
			bson.M{"$set": sanitize.Clean(update)}); err != nil {
			s.log.Warn("team profile sync failed",
				zap.String("user_id", m.ID),
				zap.String("club_id", clubID),
				zap.Error(err))
		}
	}
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(append([]string(nil), ids...), id)
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
