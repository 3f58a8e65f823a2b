package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/types"
)

type PromptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) (*types.Prompt, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Prompt, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Prompt, error)
	Update(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error)
}

type promptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPromptRepo(db *gorm.DB, baseLog *logger.Logger) PromptRepo {
	return &promptRepo{db: db, log: baseLog.With("repo", "PromptRepo")}
}

func (r *promptRepo) Create(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) (*types.Prompt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(prompt).Error; err != nil {
		return nil, err
	}
	return prompt, nil
}

func (r *promptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Prompt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Prompt
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *promptRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Prompt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Prompt
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *promptRepo) Update(ctx context.Context, tx *gorm.DB, prompt *types.Prompt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(prompt).Error
}

func (r *promptRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Prompt{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
