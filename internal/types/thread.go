package types

import (
	"time"

	"github.com/google/uuid"
)

// TitlePlaceholders are the titles a thread carries before the summarizer
// has run; title generation only ever overwrites one of these.
var TitlePlaceholders = []string{"New thread", "Untitled thread"}

// Thread is a conversation container. The ID may be supplied by the client
// (the browser mints it before the first turn), so there is no DB default.
// UserID is the resolved owner identity and is immutable after creation.
type Thread struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"not null;index;column:user_id" json:"-"`
	UserName  string     `gorm:"column:user_name" json:"-"`
	UserEmail string     `gorm:"column:user_email" json:"-"`
	Title     string     `gorm:"not null;column:title" json:"title"`
	AgentID   *uuid.UUID `gorm:"type:uuid;column:agent_id" json:"agentId,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Thread) TableName() string {
	return "thread"
}

func (t *Thread) HasPlaceholderTitle() bool {
	for _, p := range TitlePlaceholders {
		if t.Title == p {
			return true
		}
	}
	return false
}
