// internal/domain/models/application.go
package models

import "time"

// Application status values.
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application is a request to join a club.
//
// Two storage layouts exist side by side: current records live in the
// club_applications collection with ClubID as the storage parent, while
// legacy records live in the top-level applications collection with a
// club_id field that may not even be a string. The application store hides
// the split behind a single read path.
type Application struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	ClubID   string `bson:"club_id,omitempty" json:"club_id"`
	UserID   string `bson:"user_id,omitempty" json:"user_id"`
	UserName string `bson:"user_name" json:"user_name"`
	Status   string `bson:"status" json:"status"`
	Message  string `bson:"message,omitempty" json:"message,omitempty"`

	AppliedAt time.Time `bson:"applied_at,omitempty" json:"applied_at,omitempty"`
}
