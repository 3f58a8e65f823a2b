package db

import "github.com/geniehq/genie-backend/internal/types"

func AllModels() []any {
	return []any{
		&types.Thread{},
		&types.Agent{},
		&types.MCPServer{},
		&types.Document{},
		&types.Prompt{},
		&types.MessageFeedback{},
	}
}
