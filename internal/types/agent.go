package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultRecursionLimit = 25

// Agent is a named, user-owned configuration: system prompt, target model,
// tool allow-list (fully qualified "server__tool" names) and optional
// sub-agents. A non-empty SubAgentIDs list puts the agent in supervisor mode.
type Agent struct {
	ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string                        `gorm:"not null;uniqueIndex:idx_agent_user_name;column:user_id" json:"-"`
	UserName       string                        `gorm:"column:user_name" json:"-"`
	UserEmail      string                        `gorm:"column:user_email" json:"-"`
	Name           string                        `gorm:"not null;uniqueIndex:idx_agent_user_name;column:name" json:"name"`
	Description    string                        `gorm:"column:description" json:"description,omitempty"`
	SystemPrompt   string                        `gorm:"not null;column:system_prompt" json:"systemPrompt"`
	ModelName      string                        `gorm:"not null;column:model_name" json:"modelName"`
	Provider       string                        `gorm:"not null;column:provider" json:"provider"`
	Tools          datatypes.JSONSlice[string]   `gorm:"column:tools" json:"tools,omitempty"`
	SubAgentIDs    datatypes.JSONSlice[string]   `gorm:"column:sub_agent_ids" json:"subAgentIds,omitempty"`
	RecursionLimit int                           `gorm:"default:25;column:recursion_limit" json:"recursionLimit"`
	CreatedAt      time.Time                     `gorm:"not null" json:"createdAt"`
	UpdatedAt      time.Time                     `gorm:"not null" json:"updatedAt"`
}

func (Agent) TableName() string {
	return "agent"
}

func (a *Agent) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a *Agent) IsSupervisor() bool {
	return len(a.SubAgentIDs) > 0
}
