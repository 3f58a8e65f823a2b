package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

// MessageFeedback records a like/dislike judgement on one AI message.
// At most one row per (message_id, user_id); writes upsert.
type MessageFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID string    `gorm:"not null;uniqueIndex:idx_feedback_message_user;column:message_id" json:"messageId"`
	ThreadID  string    `gorm:"not null;index;column:thread_id" json:"threadId"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_feedback_message_user;column:user_id" json:"-"`
	Feedback  string    `gorm:"not null;column:feedback" json:"feedback"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (MessageFeedback) TableName() string {
	return "message_feedback"
}

func (f *MessageFeedback) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
