package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds a user's display data. Its primary key is the owning user's
// ID, so a user has at most one profile and no join is needed to find it.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
