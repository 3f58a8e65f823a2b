package app

import (
	"gorm.io/gorm"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/repos"
)

type Repos struct {
	Thread    repos.ThreadRepo
	Agent     repos.AgentRepo
	MCPServer repos.MCPServerRepo
	Document  repos.DocumentRepo
	Prompt    repos.PromptRepo
	Feedback  repos.MessageFeedbackRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Thread:    repos.NewThreadRepo(db, log),
		Agent:     repos.NewAgentRepo(db, log),
		MCPServer: repos.NewMCPServerRepo(db, log),
		Document:  repos.NewDocumentRepo(db, log),
		Prompt:    repos.NewPromptRepo(db, log),
		Feedback:  repos.NewMessageFeedbackRepo(db, log),
	}
}
