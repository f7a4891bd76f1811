package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a storefront account created on first OAuth sign-in.
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Image         string     `json:"image" db:"image"`
	IsAdmin       bool       `json:"isAdmin" db:"is_admin"`
	EmailVerified *time.Time `json:"emailVerified,omitempty" db:"email_verified"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// ProfileRequest updates the caller's own profile.
type ProfileRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// UserUpdateRequest is the admin payload for editing a user.
type UserUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Image   *string `json:"image,omitempty"`
	IsAdmin *bool   `json:"isAdmin,omitempty"`
}

// UserPage is a page of users with the total match count.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
}
