package repos

import (
  "context"

  "gorm.io/gorm"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

type APIUsageLogRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entry *types.APIUsageLog) (*types.APIUsageLog, error)
}

type apiUsageLogRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAPIUsageLogRepo(db *gorm.DB, baseLog *logger.Logger) APIUsageLogRepo {
  return &apiUsageLogRepo{db: db, log: baseLog.With("repo", "APIUsageLogRepo")}
}

func (r *apiUsageLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.APIUsageLog) (*types.APIUsageLog, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
    return nil, err
  }
  return entry, nil
}
