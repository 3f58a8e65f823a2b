package repos

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/types"
)

type MessageFeedbackRepo interface {
	// Upsert keeps at most one row per (message_id, user_id).
	Upsert(ctx context.Context, tx *gorm.DB, fb *types.MessageFeedback) (*types.MessageFeedback, error)
	ListByThread(ctx context.Context, tx *gorm.DB, threadID, userID string) ([]*types.MessageFeedback, error)
}

type messageFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) MessageFeedbackRepo {
	return &messageFeedbackRepo{db: db, log: baseLog.With("repo", "MessageFeedbackRepo")}
}

func (r *messageFeedbackRepo) Upsert(ctx context.Context, tx *gorm.DB, fb *types.MessageFeedback) (*types.MessageFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"feedback", "thread_id", "updated_at"}),
		}).
		Create(fb).Error; err != nil {
		return nil, err
	}
	return fb, nil
}

func (r *messageFeedbackRepo) ListByThread(ctx context.Context, tx *gorm.DB, threadID, userID string) ([]*types.MessageFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MessageFeedback
	if err := transaction.WithContext(ctx).
		Where("thread_id = ? AND user_id = ?", threadID, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
