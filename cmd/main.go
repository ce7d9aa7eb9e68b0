package main

import (
  "context"
  "fmt"
  "os"
  "os/signal"
  "syscall"

  "github.com/nightcat-labs/fortune-backend/internal/db"
  "github.com/nightcat-labs/fortune-backend/internal/lunar"
  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/repos"
  "github.com/nightcat-labs/fortune-backend/internal/services"
  "github.com/nightcat-labs/fortune-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  catalogPath := utils.GetEnv("SERVICE_CATALOG_PATH", "configs/services.yaml", log)
  workerEnabled := utils.GetEnvAsBool("FORTUNE_WORKER_ENABLED", true, log)

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Postgres init failed", "error", err)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Fatal("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  resultRepo := repos.NewFortuneResultRepo(thePG, log)
  configRepo := repos.NewFortuneServiceConfigRepo(thePG, log)
  usageRepo := repos.NewAPIUsageLogRepo(thePG, log)

  // Services
  log.Info("Setting up Services from main...")
  geminiClient, err := services.NewGeminiClient(log)
  if err != nil {
    log.Error("Could not init GeminiClient", "error", err)
    os.Exit(1)
  }
  usageRecorder := services.NewUsageRecorder(usageRepo, log)
  catalogService := services.NewCatalogService(configRepo, log)
  fortuneService := services.NewFortuneService(
    thePG, resultRepo, configRepo, geminiClient, usageRecorder, lunar.NewConverter(), log,
  )

  ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
  defer stop()

  // Catalog seed
  if err := catalogService.Seed(ctx, catalogPath); err != nil {
    log.Error("Service catalog seed failed", "error", err)
    os.Exit(1)
  }

  // Pending-record worker
  if workerEnabled {
    log.Info("Starting fortune generation worker...")
    fortuneService.StartWorker(ctx)
  }

  log.Info("Fortune backend is up")
  <-ctx.Done()
  log.Info("Shutting down")
}
