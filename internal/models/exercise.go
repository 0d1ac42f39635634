package models

import (
	"time"

	"github.com/google/uuid"
)

// Exercise is one entry in a user's exercise catalog. NameKey holds the
// lowercased name so uniqueness ignores case; the unique index skips archived
// rows, which lets a name be reused after its exercise is archived. Archiving
// is the only deletion: historical sets keep their exercise reference.
type Exercise struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_exercises_user_name_key" json:"user_id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	NameKey    string    `gorm:"size:100;not null;uniqueIndex:idx_exercises_user_name_key,where:is_archived = false" json:"-"`
	Category   string    `gorm:"size:100" json:"category,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	IsArchived bool      `gorm:"not null;default:false;index" json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
