package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DocumentStatusUploading  = "uploading"
	DocumentStatusProcessing = "processing"
	DocumentStatusReady      = "ready"
	DocumentStatusFailed     = "failed"
)

// Document is previously uploaded file content. Text extraction happens
// upstream; FullTextContent holds either extracted text or, for images, a
// data:image/...;base64 URL that turn assembly inlines as a multimodal block.
type Document struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string    `gorm:"not null;index;column:user_id" json:"-"`
	Name            string    `gorm:"not null;column:name" json:"name"`
	ContentType     string    `gorm:"not null;column:content_type" json:"type"`
	Size            int64     `gorm:"not null;column:size" json:"size"`
	Status          string    `gorm:"default:uploading;column:status" json:"status"`
	ContentPreview  string    `gorm:"column:content_preview" json:"content_preview,omitempty"`
	FullTextContent string    `gorm:"column:full_text_content" json:"full_text_content,omitempty"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

func (Document) TableName() string {
	return "document"
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

func (d *Document) IsImage() bool {
	return len(d.ContentType) >= 6 && d.ContentType[:6] == "image/"
}
