package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Post struct {
	ID               uuid.UUID                      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title            string                         `json:"title" gorm:"not null"`
	Body             string                         `json:"body" gorm:"not null"`
	PostedBy         uuid.UUID                      `json:"postedBy" gorm:"type:uuid;index;not null"`
	Photo            []byte                         `json:"-" gorm:"type:bytea"`
	PhotoContentType string                         `json:"-"`
	Likes            datatypes.JSONSlice[uuid.UUID] `json:"likes" gorm:"type:jsonb;default:'[]'"`
	Comments         datatypes.JSONSlice[Comment]   `json:"comments" gorm:"type:jsonb;default:'[]'"`
	CreatedAt        time.Time                      `json:"createdAt"`
	UpdatedAt        time.Time                      `json:"updatedAt"`

	// Relations
	Author *User `json:"author,omitempty" gorm:"foreignKey:PostedBy"`
}

// Comment lives inside the post's jsonb comments column, in insertion order.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	PostedBy  uuid.UUID `json:"postedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
