package services

import (
  "context"
  "fmt"
  "os"

  "gopkg.in/yaml.v3"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/repos"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

// CatalogService owns the fortune service catalog: seeding it from the
// bundled definition file and listing what is active.
type CatalogService interface {
  Seed(ctx context.Context, path string) error
  List(ctx context.Context, activeOnly bool) ([]*types.FortuneServiceConfig, error)
  GetByCode(ctx context.Context, code string) (*types.FortuneServiceConfig, error)
}

type catalogService struct {
  configRepo repos.FortuneServiceConfigRepo
  log        *logger.Logger
}

func NewCatalogService(configRepo repos.FortuneServiceConfigRepo, baseLog *logger.Logger) CatalogService {
  return &catalogService{
    configRepo: configRepo,
    log:        baseLog.With("service", "CatalogService"),
  }
}

type catalogSeedEntry struct {
  Code           string `yaml:"code"`
  Title          string `yaml:"title"`
  Subtitle       string `yaml:"subtitle"`
  Description    string `yaml:"description"`
  CharacterName  string `yaml:"character_name"`
  CharacterEmoji string `yaml:"character_emoji"`
  SortOrder      int    `yaml:"sort_order"`
}

type catalogSeedFile struct {
  Services []catalogSeedEntry `yaml:"services"`
}

func (s *catalogService) Seed(ctx context.Context, path string) error {
  raw, err := os.ReadFile(path)
  if err != nil {
    return fmt.Errorf("failed to read service catalog %s: %w", path, err)
  }
  var seed catalogSeedFile
  if err := yaml.Unmarshal(raw, &seed); err != nil {
    return fmt.Errorf("failed to parse service catalog %s: %w", path, err)
  }
  for _, entry := range seed.Services {
    if entry.Code == "" {
      return fmt.Errorf("service catalog %s contains an entry without a code", path)
    }
    cfg := &types.FortuneServiceConfig{
      Code:           entry.Code,
      Title:          entry.Title,
      Subtitle:       entry.Subtitle,
      Description:    entry.Description,
      CharacterName:  entry.CharacterName,
      CharacterEmoji: entry.CharacterEmoji,
      SortOrder:      entry.SortOrder,
      IsActive:       true,
    }
    if err := s.configRepo.Upsert(ctx, nil, cfg); err != nil {
      return fmt.Errorf("failed to seed service %s: %w", entry.Code, err)
    }
    s.log.Info("Seeded fortune service", "code", entry.Code, "title", entry.Title)
  }
  return nil
}

func (s *catalogService) List(ctx context.Context, activeOnly bool) ([]*types.FortuneServiceConfig, error) {
  return s.configRepo.List(ctx, nil, activeOnly)
}

func (s *catalogService) GetByCode(ctx context.Context, code string) (*types.FortuneServiceConfig, error) {
  return s.configRepo.GetByCode(ctx, nil, code)
}
