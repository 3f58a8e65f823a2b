package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/geniehq/genie-backend/internal/platform/logger"
	"github.com/geniehq/genie-backend/internal/types"
)

type MCPServerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, server *types.MCPServer) (*types.MCPServer, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MCPServer, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.MCPServer, error)
	ListEnabledByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.MCPServer, error)
	Update(ctx context.Context, tx *gorm.DB, server *types.MCPServer) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error)
}

type mcpServerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMCPServerRepo(db *gorm.DB, baseLog *logger.Logger) MCPServerRepo {
	return &mcpServerRepo{db: db, log: baseLog.With("repo", "MCPServerRepo")}
}

func (r *mcpServerRepo) Create(ctx context.Context, tx *gorm.DB, server *types.MCPServer) (*types.MCPServer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(server).Error; err != nil {
		return nil, err
	}
	return server, nil
}

func (r *mcpServerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MCPServer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.MCPServer
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *mcpServerRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.MCPServer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MCPServer
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mcpServerRepo) ListEnabledByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.MCPServer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.MCPServer
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND enabled = ?", userID, true).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *mcpServerRepo) Update(ctx context.Context, tx *gorm.DB, server *types.MCPServer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(server).Error
}

func (r *mcpServerRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID, userID string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.MCPServer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
