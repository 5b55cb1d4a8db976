package models

import (
	"fmt"
	"strings"
	"time"
)

// User represents a listener account that uploads tracks and receives recommendations.
type User struct {
	id        string
	sequence  int
	email     string
	name      string
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewUser creates a new User with the given sequence, email, and display name.
//
// The ID is assigned on persistence by the repository.
func NewUser(sequence int, email, name string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		email:     email,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string            { return u.id }
func (u *User) Sequence() int         { return u.sequence }
func (u *User) Email() string         { return u.email }
func (u *User) Name() string          { return u.name }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() time.Time  { return u.updatedAt }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }

func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetSequence(sequence int)  { u.sequence = sequence }
func (u *User) SetEmail(email string)     { u.email = email }
func (u *User) SetName(name string)       { u.name = name }
func (u *User) SetCreatedAt(t time.Time)  { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// Validate checks that the user has an email and a display name.
func (u *User) Validate() error {
	if strings.TrimSpace(u.email) == "" {
		return fmt.Errorf("user email is required")
	}
	if !strings.Contains(u.email, "@") {
		return fmt.Errorf("user email is invalid: %s", u.email)
	}
	if strings.TrimSpace(u.name) == "" {
		return fmt.Errorf("user name is required")
	}
	return nil
}
