// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/sanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Store reads and writes user profiles.
//
// The users collection is identity-gated in production, so anonymous
// reads can fail with a permission error; that degrades to empty like any
// other read failure because public pages must still render.
type Store struct {
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{c: db.Collection("users"), log: logger}
}

// List returns all users, or nil after logging if the read fails.
func (s *Store) List(ctx context.Context) []models.User {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		s.log.Error("listing users", zap.Error(err))
		return nil
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		s.log.Error("decoding users", zap.Error(err))
		return nil
	}
	return users
}

// GetByID returns the user or nil when missing or unreadable.
func (s *Store) GetByID(ctx context.Context, userID string) *models.User {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&u); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Error("getting user", zap.String("user_id", userID), zap.Error(err))
		}
		return nil
	}
	return &u
}

// GetByEmail returns the user with the given email, or nil.
func (s *Store) GetByEmail(ctx context.Context, email string) *models.User {
	var u models.User
	filter := bson.M{"email": strings.ToLower(strings.TrimSpace(email))}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.log.Error("getting user by email", zap.Error(err))
		}
		return nil
	}
	return &u
}

// GetByRollNumber finds a student by roll number, compared
// case-insensitively. Roll numbers are not indexed, so this scans the
// user list; acceptable at campus scale.
func (s *Store) GetByRollNumber(ctx context.Context, rollNumber string) *models.User {
	want := text.Fold(rollNumber)
	if want == "" {
		return nil
	}
	for _, u := range s.List(ctx) {
		if text.Fold(u.RollNumber) == want {
			user := u
			return &user
		}
	}
	return nil
}

// UpdateProfile applies a partial update to a user record, enforcing the
// profile invariants:
//
//   - blank entries are filtered out of managedClubIds;
//   - a user managing no clubs is a student, so an update that empties
//     managedClubIds also resets the role;
//   - position is a club-team attribute and is never stored on profiles.
func (s *Store) UpdateProfile(ctx context.Context, userID string, updates bson.M) error {
	payload := sanitize.Clean(updates)
	delete(payload, "position")

	if raw, present := payload["managedClubIds"]; present {
		ids := filterClubIDs(raw)
		payload["managed_club_ids"] = ids
		delete(payload, "managedClubIds")
		if len(ids) == 0 {
			payload["role"] = models.RoleStudent
		}
	}

	if len(payload) == 0 {
		return nil
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": payload})
	return err
}

func filterClubIDs(raw interface{}) []string {
	var in []interface{}
	switch tv := raw.(type) {
	case []string:
		out := make([]string, 0, len(tv))
		for _, id := range tv {
			if strings.TrimSpace(id) != "" {
				out = append(out, id)
			}
		}
		return out
	case bson.A:
		in = tv
	case []interface{}:
		in = tv
	default:
		return []string{}
	}

	out := make([]string, 0, len(in))
	for _, el := range in {
		if id, ok := el.(string); ok && strings.TrimSpace(id) != "" {
			out = append(out, id)
		}
	}
	return out
}
