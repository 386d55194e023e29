// internal/domain/models/event.go
package models

import "time"

// Event status values, derived from the event date at creation time.
const (
	EventUpcoming = "upcoming"
	EventOngoing  = "ongoing"
	EventPast     = "past"
)

// Event is a club-organized event. Events live in the club_events
// collection keyed by their owning club (ClubID is the storage parent).
//
// OrganizerClubID is the logical owner reference. Older records omit it,
// so reads must backfill it from ClubID; callers can rely on it always
// being populated in anything the event store returns.
type Event struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	ClubID          string    `bson:"club_id,omitempty" json:"-"`
	OrganizerClubID string    `bson:"organizer_club_id,omitempty" json:"organizer_club_id"`
	Title           string    `bson:"title" json:"title"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	Date            time.Time `bson:"date" json:"date"`
	Venue           string    `bson:"venue,omitempty" json:"venue,omitempty"`
	Status          string    `bson:"status" json:"status"`
	ImageURL        string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	WinnerDetails   string    `bson:"winner_details,omitempty" json:"winner_details,omitempty"`
	EventImages     []string  `bson:"event_images,omitempty" json:"event_images,omitempty"`
}
