package services

import (
  "context"
  "time"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/repos"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

// USD per one million tokens. Models not listed here cost nothing.
type modelPrice struct {
  input  float64
  output float64
}

var modelPrices = map[string]modelPrice{
  "gemini-2.0-flash": {input: 0.10, output: 0.30},
}

type UsageRecorder interface {
  RecordCall(ctx context.Context, serviceCode, userKey string, gen *Generation, responseTime time.Duration)
  RecordCacheHit(ctx context.Context, serviceCode, userKey, model string)
}

type usageRecorder struct {
  usageRepo repos.APIUsageLogRepo
  log       *logger.Logger
}

func NewUsageRecorder(usageRepo repos.APIUsageLogRepo, baseLog *logger.Logger) UsageRecorder {
  return &usageRecorder{
    usageRepo: usageRepo,
    log:       baseLog.With("service", "UsageRecorder"),
  }
}

func estimateCost(model string, promptTokens, completionTokens int) float64 {
  price, ok := modelPrices[model]
  if !ok {
    return 0
  }
  return float64(promptTokens)/1_000_000*price.input + float64(completionTokens)/1_000_000*price.output
}

// RecordCall persists the usage row without ever failing the caller.
// The write survives cancellation of the request context.
func (u *usageRecorder) RecordCall(ctx context.Context, serviceCode, userKey string, gen *Generation, responseTime time.Duration) {
  entry := &types.APIUsageLog{
    Provider:         "gemini",
    Model:            gen.Model,
    ServiceCode:      serviceCode,
    UserKey:          userKey,
    PromptTokens:     gen.PromptTokens,
    CompletionTokens: gen.CompletionTokens,
    TotalTokens:      gen.TotalTokens,
    EstimatedCost:    estimateCost(gen.Model, gen.PromptTokens, gen.CompletionTokens),
    ResponseTimeMS:   int(responseTime.Milliseconds()),
  }
  u.write(ctx, entry)
}

func (u *usageRecorder) RecordCacheHit(ctx context.Context, serviceCode, userKey, model string) {
  entry := &types.APIUsageLog{
    Provider:    "gemini",
    Model:       model,
    ServiceCode: serviceCode,
    UserKey:     userKey,
    CacheHit:    true,
  }
  u.write(ctx, entry)
}

func (u *usageRecorder) write(ctx context.Context, entry *types.APIUsageLog) {
  if _, err := u.usageRepo.Create(context.WithoutCancel(ctx), nil, entry); err != nil {
    u.log.Warn("Failed to record API usage", "service_code", entry.ServiceCode, "error", err)
  }
}
