// internal/domain/models/content.go
package models

import "time"

// Leaf entities fetched by the content store and passed through to the
// portal unchanged. None of them participate in multi-document writes.

// LeadershipMember is an entry on the student-leadership page.
type LeadershipMember struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Position string `bson:"position" json:"position"`
	ImageURL string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// AnnualEvent is a recurring flagship event (fest, convocation, etc.).
type AnnualEvent struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Month       string `bson:"month,omitempty" json:"month,omitempty"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// NewsArticle is a campus news item.
type NewsArticle struct {
	ID      string    `bson:"_id,omitempty" json:"id"`
	Title   string    `bson:"title" json:"title"`
	Content string    `bson:"content,omitempty" json:"content,omitempty"`
	Date    time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

// ExternalEvent is an event hosted by another institution.
type ExternalEvent struct {
	ID      string    `bson:"_id,omitempty" json:"id"`
	Title   string    `bson:"title" json:"title"`
	College string    `bson:"college,omitempty" json:"college,omitempty"`
	Date    time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Link    string    `bson:"link,omitempty" json:"link,omitempty"`
}

// Notification is a per-user message.
type Notification struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Message   string    `bson:"message" json:"message"`
	Read      bool      `bson:"read" json:"read"`
	CreatedAt time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`
}
