package types

import (
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
)

// FortuneServiceConfig describes one fortune service in the catalog.
// PromptTemplate, when set, overrides the built-in prompt for the code.
type FortuneServiceConfig struct {
  gorm.Model
  ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Code           string    `gorm:"column:code;size:32;not null;uniqueIndex" json:"code"`
  Title          string    `gorm:"column:title;not null" json:"title"`
  Subtitle       string    `gorm:"column:subtitle" json:"subtitle"`
  Description    string    `gorm:"column:description;type:text" json:"description"`
  CharacterName  string    `gorm:"column:character_name" json:"character_name"`
  CharacterEmoji string    `gorm:"column:character_emoji" json:"character_emoji"`
  PromptTemplate string    `gorm:"column:prompt_template;type:text" json:"prompt_template"`
  IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
  SortOrder      int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
  CreatedAt      time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (FortuneServiceConfig) TableName() string {
  return "fortune_service_config"
}

func (c *FortuneServiceConfig) BeforeCreate(tx *gorm.DB) error {
  if c.ID == uuid.Nil {
    c.ID = uuid.New()
  }
  return nil
}
