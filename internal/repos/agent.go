package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/types"
)

type AgentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Agent, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Agent, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Agent, error)
	Update(ctx context.Context, tx *gorm.DB, agent *types.Agent) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error)
}

type agentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgentRepo(db *gorm.DB, baseLog *logger.Logger) AgentRepo {
	return &agentRepo{db: db, log: baseLog.With("repo", "AgentRepo")}
}

func (r *agentRepo) Create(ctx context.Context, tx *gorm.DB, agent *types.Agent) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

func (r *agentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Agent
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *agentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Agent
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *agentRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Agent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Agent
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *agentRepo) Update(ctx context.Context, tx *gorm.DB, agent *types.Agent) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(agent).Error
}

func (r *agentRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Agent{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
