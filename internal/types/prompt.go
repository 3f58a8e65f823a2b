package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prompt is a saved text snippet the user can reuse when composing turns.
type Prompt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"not null;index:idx_prompt_user_name;column:user_id" json:"-"`
	Name      string    `gorm:"not null;index:idx_prompt_user_name;column:name" json:"name"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Prompt) TableName() string {
	return "prompt"
}

func (p *Prompt) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
