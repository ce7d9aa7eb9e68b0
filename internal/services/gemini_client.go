package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "google.golang.org/genai"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/utils"
)

// Generation is one successful model response with its token usage.
type Generation struct {
  Text             string
  Model            string
  PromptTokens     int
  CompletionTokens int
  TotalTokens      int
}

type GenerativeClient interface {
  Generate(ctx context.Context, prompt string) (*Generation, error)
  Model() string
}

// Fixed sampling parameters. Determinism of a reading comes from the
// daily cache, not from the sampler, so these stay creative.
const (
  genTemperature     = 0.8
  genTopK            = 40
  genTopP            = 0.95
  genMaxOutputTokens = 2048

  genAttempts   = 3
  genRetryDelay = 2 * time.Second
)

type geminiClient struct {
  log        *logger.Logger
  model      string
  attempts   int
  retryDelay time.Duration

  // call performs one model invocation. Tests swap it out.
  call func(ctx context.Context, prompt string) (*Generation, error)
}

func NewGeminiClient(log *logger.Logger) (GenerativeClient, error) {
  clientLog := log.With("service", "GeminiClient")
  apiKey := utils.GetEnv("GEMINI_API_KEY", "", clientLog)
  if apiKey == "" {
    return nil, fmt.Errorf("missing GEMINI_API_KEY")
  }
  model := utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", clientLog)

  client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
    APIKey: apiKey,
  })
  if err != nil {
    return nil, fmt.Errorf("failed to create genai client: %w", err)
  }

  gc := &geminiClient{log: clientLog, model: model, attempts: genAttempts, retryDelay: genRetryDelay}
  gc.call = func(ctx context.Context, prompt string) (*Generation, error) {
    resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
      Temperature:     genai.Ptr[float32](genTemperature),
      TopK:            genai.Ptr[float32](genTopK),
      TopP:            genai.Ptr[float32](genTopP),
      MaxOutputTokens: genMaxOutputTokens,
    })
    if err != nil {
      return nil, err
    }
    gen := &Generation{Text: resp.Text(), Model: model}
    if resp.UsageMetadata != nil {
      gen.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
      gen.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
      gen.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
    }
    return gen, nil
  }
  return gc, nil
}

func (c *geminiClient) Model() string {
  return c.model
}

// Generate retries transient failures a fixed number of times. A
// response with no text counts as a failure.
func (c *geminiClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
  var lastErr error
  for attempt := 1; attempt <= c.attempts; attempt++ {
    if attempt > 1 {
      select {
      case <-ctx.Done():
        return nil, ctx.Err()
      case <-time.After(c.retryDelay):
      }
    }
    gen, err := c.call(ctx, prompt)
    if err != nil {
      lastErr = err
      c.log.Warn("Generation attempt failed", "attempt", attempt, "error", err)
      continue
    }
    if strings.TrimSpace(gen.Text) == "" {
      lastErr = fmt.Errorf("empty response from model")
      c.log.Warn("Generation attempt returned empty text", "attempt", attempt)
      continue
    }
    return gen, nil
  }
  return nil, fmt.Errorf("generation failed after %d attempts: %w", c.attempts, lastErr)
}
