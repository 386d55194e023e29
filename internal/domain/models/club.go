// internal/domain/models/club.go
package models

import "time"

// TeamMember is one entry in a club's coordinator team. All three fields
// are required; the club store rejects writes containing a member that is
// missing any of them.
type TeamMember struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Position string `bson:"position" json:"position"`
}

// Club is a student club. The team array is always written in full
// (never element-wise), so partial club updates must carry the complete
// current team.
type Club struct {
	ID          string       `bson:"_id,omitempty" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
	Category    string       `bson:"category,omitempty" json:"category,omitempty"`
	ImageURL    string       `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Team        []TeamMember `bson:"team,omitempty" json:"team"`

	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
