package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"
)

const (
  FortuneStatusPending   = "pending"
  FortuneStatusCompleted = "completed"
  FortuneStatusError     = "error"
)

// FortuneResult is one generated reading. Canonical rows (is_from_cache
// = false) are unique per service, identity key and date; reshare
// copies carry their own share code and sit outside that constraint.
type FortuneResult struct {
  gorm.Model
  ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  ServiceCode    string         `gorm:"column:service_code;size:32;not null;index;uniqueIndex:uix_fortune_service_user_date,where:is_from_cache = false" json:"service_code"`
  UserKey        string         `gorm:"column:user_key;size:64;not null;uniqueIndex:uix_fortune_service_user_date,where:is_from_cache = false" json:"user_key"`
  Date           time.Time      `gorm:"column:date;type:date;not null;uniqueIndex:uix_fortune_service_user_date,where:is_from_cache = false" json:"date"`
  ShareCode      string         `gorm:"column:share_code;size:16;not null;uniqueIndex" json:"share_code"`
  RequestPayload datatypes.JSON `gorm:"type:jsonb;column:request_payload" json:"request_payload"`
  ResultText     string         `gorm:"column:result_text;type:text" json:"result_text"`
  Status         string         `gorm:"column:status;not null;default:pending;index" json:"status"`
  ErrorMessage   string         `gorm:"column:error_message" json:"error_message"`
  IsFromCache    bool           `gorm:"column:is_from_cache;not null;default:false" json:"is_from_cache"`
  ClaimedAt      *time.Time     `gorm:"column:claimed_at" json:"claimed_at,omitempty"`
  CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (FortuneResult) TableName() string {
  return "fortune_result"
}

func (f *FortuneResult) BeforeCreate(tx *gorm.DB) error {
  if f.ID == uuid.Nil {
    f.ID = uuid.New()
  }
  return nil
}
