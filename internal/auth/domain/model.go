package domain

import (
	"errors"
	"strings"
	"time"
)

// UserProfileKey holds the profile inside the user's keyed store.
const UserProfileKey = "roomify_user_profile"

var ErrUserNotFound = errors.New("user not found")

// User is the signed-in account as the app displays it.
// Firebase UID is the primary identifier
type User struct {
	UID         string     `json:"uid"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName *string    `json:"displayName,omitempty"`
	PhotoURL    *string    `json:"photoUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// SyncUserRequest carries what the identity provider knows about a user.
type SyncUserRequest struct {
	UID         string
	Email       string
	DisplayName *string
	PhotoURL    *string
}

type UpdateUserRequest struct {
	Username    *string
	DisplayName *string
	PhotoURL    *string
}

// DefaultUsername derives a username from the email local part, falling
// back to the uid.
func DefaultUsername(uid, email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return uid
}
