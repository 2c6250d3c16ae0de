// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User is a signed-up account.
// The same shape is written to the CSV sink (Username, Email, Password) and the users table.
type User struct {
	// ID is the primary key in the DB store, or the 1-based data row in the CSV sink.
	ID uint `gorm:"primaryKey"`

	Username string `gorm:"size:255;not null"`

	// Email must be unique in the DB store. The CSV sink does not enforce it.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is always a bcrypt hash, never plaintext.
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
