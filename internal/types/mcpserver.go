package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MCPServerTypeStdio = "stdio"
	MCPServerTypeHTTP  = "http"
)

// MCPServer registers an external tool server. Stdio servers carry the
// command/args/env needed to spawn them; http servers carry a URL and
// optional headers.
type MCPServer struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string             `gorm:"not null;uniqueIndex:idx_mcp_user_name;column:user_id" json:"-"`
	UserName  string             `gorm:"column:user_name" json:"-"`
	UserEmail string             `gorm:"column:user_email" json:"-"`
	Name      string             `gorm:"not null;uniqueIndex:idx_mcp_user_name;column:name" json:"name"`
	Type      string             `gorm:"not null;column:type" json:"type"`
	// No column default: gorm would skip a false value on insert and the
	// server would come back enabled. Callers always set this explicitly.
	Enabled   bool               `gorm:"not null;column:enabled" json:"enabled"`
	Command   string             `gorm:"column:command" json:"command,omitempty"`
	Args      datatypes.JSON     `gorm:"column:args" json:"args,omitempty"`
	Env       datatypes.JSONMap  `gorm:"column:env" json:"env,omitempty"`
	URL       string             `gorm:"column:url" json:"url,omitempty"`
	Headers   datatypes.JSONMap  `gorm:"column:headers" json:"headers,omitempty"`
	CreatedAt time.Time          `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time          `gorm:"not null" json:"updatedAt"`
}

func (MCPServer) TableName() string {
	return "mcp_server"
}

func (s *MCPServer) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
