package model

import "github.com/google/uuid"

// NewUserID returns a fresh UUID for a user account.
func NewUserID() string {
	return uuid.NewString()
}

// NewPublicID returns the short record identifier used for diagnoses,
// prescriptions and reminders: the first 8 hex characters of a UUIDv4.
// Collisions are possible in principle; the unique index on the column
// rejects them and callers retry.
func NewPublicID() string {
	return uuid.NewString()[:8]
}
