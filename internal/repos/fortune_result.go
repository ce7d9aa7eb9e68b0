package repos

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

type FortuneResultRepo interface {
  Create(ctx context.Context, tx *gorm.DB, result *types.FortuneResult) (*types.FortuneResult, error)
  GetCanonical(ctx context.Context, tx *gorm.DB, serviceCode, userKey string, date time.Time) (*types.FortuneResult, error)
  GetByShareCode(ctx context.Context, tx *gorm.DB, shareCode string) (*types.FortuneResult, error)
  ShareCodeExists(ctx context.Context, tx *gorm.DB, shareCode string) (bool, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
  ClaimNextPending(ctx context.Context, tx *gorm.DB, staleClaim time.Duration) (*types.FortuneResult, error)
}

type fortuneResultRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewFortuneResultRepo(db *gorm.DB, baseLog *logger.Logger) FortuneResultRepo {
  return &fortuneResultRepo{db: db, log: baseLog.With("repo", "FortuneResultRepo")}
}

func (r *fortuneResultRepo) Create(ctx context.Context, tx *gorm.DB, result *types.FortuneResult) (*types.FortuneResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(result).Error; err != nil {
    return nil, err
  }
  return result, nil
}

// GetCanonical returns the unique non-reshare row for the key, or nil
// when none exists.
func (r *fortuneResultRepo) GetCanonical(ctx context.Context, tx *gorm.DB, serviceCode, userKey string, date time.Time) (*types.FortuneResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var row types.FortuneResult
  err := transaction.WithContext(ctx).
    Where("service_code = ? AND user_key = ? AND date = ? AND is_from_cache = ?", serviceCode, userKey, date, false).
    First(&row).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &row, nil
}

func (r *fortuneResultRepo) GetByShareCode(ctx context.Context, tx *gorm.DB, shareCode string) (*types.FortuneResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var row types.FortuneResult
  err := transaction.WithContext(ctx).
    Where("share_code = ?", shareCode).
    First(&row).Error
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return nil, nil
  }
  if err != nil {
    return nil, err
  }
  return &row, nil
}

func (r *fortuneResultRepo) ShareCodeExists(ctx context.Context, tx *gorm.DB, shareCode string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  err := transaction.WithContext(ctx).
    Model(&types.FortuneResult{}).
    Where("share_code = ?", shareCode).
    Count(&count).Error
  if err != nil {
    return false, err
  }
  return count > 0, nil
}

func (r *fortuneResultRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).
    Model(&types.FortuneResult{}).
    Where("id = ?", id).
    Updates(updates).Error
}

// ClaimNextPending picks the oldest pending row whose claim is free or
// stale and stamps claimed_at, so concurrent workers never take the
// same row twice.
func (r *fortuneResultRepo) ClaimNextPending(ctx context.Context, tx *gorm.DB, staleClaim time.Duration) (*types.FortuneResult, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  now := time.Now()
  staleCutoff := now.Add(-staleClaim)
  var claimed *types.FortuneResult
  err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
    q := txx
    // sqlite has no row locks; the serialized write transaction covers it.
    if txx.Dialector.Name() == "postgres" {
      q = txx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
    }
    var row types.FortuneResult
    qErr := q.
      Where("status = ? AND (claimed_at IS NULL OR claimed_at < ?)", types.FortuneStatusPending, staleCutoff).
      Order("created_at ASC").
      First(&row).Error
    if errors.Is(qErr, gorm.ErrRecordNotFound) {
      return nil
    }
    if qErr != nil {
      return qErr
    }
    uErr := txx.Model(&types.FortuneResult{}).
      Where("id = ?", row.ID).
      Updates(map[string]interface{}{
        "claimed_at": now,
        "updated_at": now,
      }).Error
    if uErr != nil {
      return uErr
    }
    claimed = &row
    return nil
  })
  if err != nil {
    return nil, err
  }
  return claimed, nil
}
