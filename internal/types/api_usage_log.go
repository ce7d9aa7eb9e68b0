package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// APIUsageLog records one model call for cost accounting. Cache hits
// are logged too, with zero token counts.
type APIUsageLog struct {
  ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Provider         string    `gorm:"column:provider;not null;default:gemini" json:"provider"`
  Model            string    `gorm:"column:model;not null" json:"model"`
  ServiceCode      string    `gorm:"column:service_code;size:32;index" json:"service_code"`
  UserKey          string    `gorm:"column:user_key;size:64" json:"user_key"`
  PromptTokens     int       `gorm:"column:prompt_tokens;not null;default:0" json:"prompt_tokens"`
  CompletionTokens int       `gorm:"column:completion_tokens;not null;default:0" json:"completion_tokens"`
  TotalTokens      int       `gorm:"column:total_tokens;not null;default:0" json:"total_tokens"`
  EstimatedCost    float64   `gorm:"column:estimated_cost;not null;default:0" json:"estimated_cost"`
  ResponseTimeMS   int       `gorm:"column:response_time_ms;not null;default:0" json:"response_time_ms"`
  CacheHit         bool      `gorm:"column:cache_hit;not null;default:false" json:"cache_hit"`
  CreatedAt        time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (APIUsageLog) TableName() string {
  return "api_usage_log"
}

func (l *APIUsageLog) BeforeCreate(tx *gorm.DB) error {
  if l.ID == uuid.Nil {
    l.ID = uuid.New()
  }
  return nil
}
