package repos

import (
  "context"
  "errors"

  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

type FortuneServiceConfigRepo interface {
  GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.FortuneServiceConfig, error)
  List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.FortuneServiceConfig, error)
  Upsert(ctx context.Context, tx *gorm.DB, cfg *types.FortuneServiceConfig) error
}

type fortuneServiceConfigRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFortuneServiceConfigRepo(db *gorm.DB, baseLog *logger.Logger) FortuneServiceConfigRepo {
  return &fortuneServiceConfigRepo{db: db, log: baseLog.With("repo", "FortuneServiceConfigRepo")}
}

func (r *fortuneServiceConfigRepo) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*types.FortuneServiceConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var cfg types.FortuneServiceConfig
  err := transaction.WithContext(ctx).
    Where("code = ?", code).
    First(&cfg).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &cfg, nil
}

func (r *fortuneServiceConfigRepo) List(ctx context.Context, tx *gorm.DB, activeOnly bool) ([]*types.FortuneServiceConfig, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  q := transaction.WithContext(ctx).Order("sort_order ASC, code ASC")
  if activeOnly {
    q = q.Where("is_active = ?", true)
  }
  var out []*types.FortuneServiceConfig
  if err := q.Find(&out).Error; err != nil {
    return nil, err
  }
  return out, nil
}

// Upsert inserts the catalog entry or refreshes its display fields.
// IsActive and PromptTemplate are left alone on conflict so operator
// edits survive reseeding.
func (r *fortuneServiceConfigRepo) Upsert(ctx context.Context, tx *gorm.DB, cfg *types.FortuneServiceConfig) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns:   []clause.Column{{Name: "code"}},
      DoUpdates: clause.AssignmentColumns([]string{"title", "subtitle", "description", "character_name", "character_emoji", "sort_order", "updated_at"}),
    }).
    Create(cfg).Error
}
