package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

type User struct {
	ID                 uuid.UUID                      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Username           string                         `json:"username" gorm:"uniqueIndex;not null"`
	Email              string                         `json:"email" gorm:"uniqueIndex;not null"`
	FirstName          string                         `json:"firstName" gorm:"not null"`
	LastName           string                         `json:"lastName" gorm:"not null"`
	HashPassword       string                         `json:"-" gorm:"not null"`
	ResetPasswordToken string                         `json:"-"`
	IsActive           bool                           `json:"isActive" gorm:"not null;default:true"`
	Photo              []byte                         `json:"-" gorm:"type:bytea"`
	PhotoContentType   string                         `json:"-"`
	Following          datatypes.JSONSlice[uuid.UUID] `json:"following" gorm:"type:jsonb;default:'[]'"`
	Followers          datatypes.JSONSlice[uuid.UUID] `json:"followers" gorm:"type:jsonb;default:'[]'"`
	CreatedAt          time.Time                      `json:"createdAt"`
	UpdatedAt          time.Time                      `json:"updatedAt"`
}

// SetPassword hashes plaintext and stores the result on the user.
// It mutates the record in place and does not persist it.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashPassword = string(hashed)
	return nil
}

// VerifyPassword reports whether candidate matches the stored hash.
// Any bcrypt failure is treated as a mismatch.
func (u *User) VerifyPassword(candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashPassword), []byte(candidate)) == nil
}

// Name is the display name used when follower/following references are
// resolved for client views.
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
