// internal/domain/models/user.go
package models

// User roles.
//
// A user with no managed clubs is always a student. Club promotion raises
// students to contributor; admin is assigned out of band and is never
// downgraded by promotion logic.
const (
	RoleStudent     = "student"
	RoleContributor = "contributor"
	RoleAdmin       = "admin"
)

// User represents students, club contributors, and admins.
type User struct {
	ID             string   `bson:"_id,omitempty" json:"id"`
	Name           string   `bson:"name" json:"name"`
	Email          string   `bson:"email" json:"email"`
	RollNumber     string   `bson:"roll_number,omitempty" json:"roll_number,omitempty"`
	Year           string   `bson:"year,omitempty" json:"year,omitempty"`
	Branch         string   `bson:"branch,omitempty" json:"branch,omitempty"`
	Mobile         string   `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Role           string   `bson:"role" json:"role"`
	IsGuest        bool     `bson:"is_guest,omitempty" json:"is_guest,omitempty"`
	ManagedClubIDs []string `bson:"managed_club_ids,omitempty" json:"managed_club_ids"`

	// PasswordHash is only read by the login feature and never serialized
	// to clients.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
}
