package services

import (
  "context"
  "crypto/rand"
  "encoding/json"
  goerrors "errors"
  "fmt"
  "strconv"
  "strings"
  "time"

  "golang.org/x/sync/singleflight"
  "gorm.io/gorm"

  "github.com/nightcat-labs/fortune-backend/internal/lunar"
  "github.com/nightcat-labs/fortune-backend/internal/pkg/errors"
  "github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
  "github.com/nightcat-labs/fortune-backend/internal/repos"
  "github.com/nightcat-labs/fortune-backend/internal/saju"
  "github.com/nightcat-labs/fortune-backend/internal/types"
  "github.com/nightcat-labs/fortune-backend/internal/utils"
)

// FortuneRequest is the normalized input for one reading. Lunar
// birthdates are converted to solar before any chart work.
type FortuneRequest struct {
  Name             string      `json:"name,omitempty"`
  Birthdate        time.Time   `json:"birthdate"`
  Gender           saju.Gender `json:"gender"`
  BirthTime        string      `json:"birth_time,omitempty"`
  Calendar         string      `json:"calendar,omitempty"`
  LeapMonth        bool        `json:"leap_month,omitempty"`
  PartnerName      string      `json:"partner_name,omitempty"`
  PartnerBirthdate time.Time   `json:"partner_birthdate,omitempty"`
  PartnerGender    saju.Gender `json:"partner_gender,omitempty"`
  PartnerCalendar  string      `json:"partner_calendar,omitempty"`
  PartnerLeapMonth bool        `json:"partner_leap_month,omitempty"`
  DreamContent     string      `json:"dream_content,omitempty"`
}

func (r *FortuneRequest) displayName() string {
  if r.Name == "" {
    return "고객"
  }
  return r.Name
}

func (r *FortuneRequest) displayPartnerName() string {
  if r.PartnerName == "" {
    return "상대방"
  }
  return r.PartnerName
}

func (r *FortuneRequest) displayBirthTime() string {
  if r.BirthTime == "" {
    return "모름"
  }
  return r.BirthTime
}

// GetOptions tunes one GetOrCreate call.
type GetOptions struct {
  // Share requests a fresh share code even on a cache hit; the cached
  // narrative is copied into a new record flagged as a cache copy.
  Share bool
  // Async persists a pending placeholder and lets the worker finish
  // the generation out of band.
  Async bool
}

// FortuneView is what the presentation layer consumes.
type FortuneView struct {
  ServiceCode string        `json:"service_code"`
  ShareCode   string        `json:"share_code"`
  ResultText  string        `json:"result_text,omitempty"`
  Status      string        `json:"status"`
  IsFromCache bool          `json:"is_from_cache"`
  Date        time.Time     `json:"date"`
  Context     *ChartContext `json:"context,omitempty"`
}

type FortuneService interface {
  GetOrCreate(ctx context.Context, serviceCode string, req *FortuneRequest, opts GetOptions) (*FortuneView, error)
  GetByShareCode(ctx context.Context, shareCode string) (*FortuneView, error)
  StartWorker(ctx context.Context)
}

const (
  shareCodeBaseLength = 8
  shareCodeAttempts   = 100
  shareCodeAlphabet   = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

  workerStaleClaim = 5 * time.Minute
)

type fortuneService struct {
  db         *gorm.DB
  resultRepo repos.FortuneResultRepo
  configRepo repos.FortuneServiceConfigRepo
  client     GenerativeClient
  usage      UsageRecorder
  converter  lunar.Converter
  prompts    *promptBuilder
  log        *logger.Logger

  cacheEnabled bool
  now          func() time.Time
  group        singleflight.Group
}

func NewFortuneService(
  db *gorm.DB,
  resultRepo repos.FortuneResultRepo,
  configRepo repos.FortuneServiceConfigRepo,
  client GenerativeClient,
  usage UsageRecorder,
  converter lunar.Converter,
  baseLog *logger.Logger,
) FortuneService {
  serviceLog := baseLog.With("service", "FortuneService")
  return &fortuneService{
    db:           db,
    resultRepo:   resultRepo,
    configRepo:   configRepo,
    client:       client,
    usage:        usage,
    converter:    converter,
    prompts:      newPromptBuilder(nil),
    log:          serviceLog,
    cacheEnabled: utils.GetEnvAsBool("CACHE_ENABLED", true, serviceLog),
    now:          time.Now,
  }
}

func (s *fortuneService) GetOrCreate(ctx context.Context, serviceCode string, req *FortuneRequest, opts GetOptions) (*FortuneView, error) {
  cfg, err := s.configRepo.GetByCode(ctx, nil, serviceCode)
  if err != nil {
    return nil, err
  }
  if cfg == nil {
    return nil, fmt.Errorf("%w: %s", errors.ErrServiceNotFound, serviceCode)
  }
  if !cfg.IsActive {
    return nil, fmt.Errorf("%w: %s", errors.ErrServiceInactive, serviceCode)
  }

  if err := s.validate(serviceCode, req); err != nil {
    return nil, err
  }
  solarBirth, partnerBirth, err := s.resolveSolarDates(req)
  if err != nil {
    return nil, err
  }

  userKey := s.buildUserKey(serviceCode, req, solarBirth, partnerBirth)
  today := dateOnly(s.now())

  if s.cacheEnabled {
    cached, err := s.resultRepo.GetCanonical(ctx, nil, serviceCode, userKey, today)
    if err != nil {
      return nil, err
    }
    if cached != nil {
      return s.serveCached(ctx, cfg, userKey, cached, opts)
    }
  }

  // Concurrent identical requests collapse into one generation.
  key := serviceCode + "|" + userKey + "|" + today.Format("2006-01-02")
  v, err, _ := s.group.Do(key, func() (interface{}, error) {
    return s.createNew(ctx, cfg, req, userKey, today, solarBirth, partnerBirth, opts)
  })
  if err != nil {
    return nil, err
  }
  return v.(*FortuneView), nil
}

func (s *fortuneService) validate(serviceCode string, req *FortuneRequest) error {
  if req.Birthdate.IsZero() {
    return fmt.Errorf("%w: birthdate is required", errors.ErrMissingBirthInfo)
  }
  switch serviceCode {
  case "match":
    if req.PartnerBirthdate.IsZero() {
      return fmt.Errorf("%w: partner birthdate is required", errors.ErrMissingBirthInfo)
    }
  case "dream":
    if strings.TrimSpace(req.DreamContent) == "" {
      return fmt.Errorf("%w: dream content is required", errors.ErrInvalidArgument)
    }
  }
  return nil
}

// resolveSolarDates converts lunar birthdates to solar. Solar inputs
// pass through untouched.
func (s *fortuneService) resolveSolarDates(req *FortuneRequest) (time.Time, time.Time, error) {
  solarBirth, err := s.toSolar(req.Birthdate, req.Calendar, req.LeapMonth)
  if err != nil {
    return time.Time{}, time.Time{}, err
  }
  partnerBirth := req.PartnerBirthdate
  if !partnerBirth.IsZero() {
    partnerBirth, err = s.toSolar(req.PartnerBirthdate, req.PartnerCalendar, req.PartnerLeapMonth)
    if err != nil {
      return time.Time{}, time.Time{}, err
    }
  }
  return solarBirth, partnerBirth, nil
}

func (s *fortuneService) toSolar(date time.Time, calendar string, leap bool) (time.Time, error) {
  if calendar != "lunar" {
    return date, nil
  }
  y, m, d, err := s.converter.ToSolar(date.Year(), int(date.Month()), date.Day(), leap)
  if err != nil {
    return time.Time{}, fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
  }
  return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC), nil
}

// buildUserKey fingerprints the requester. Two-party services fold in
// the partner, free-text services fold in the text digest.
func (s *fortuneService) buildUserKey(serviceCode string, req *FortuneRequest, solarBirth, partnerBirth time.Time) string {
  parts := []string{
    req.Name,
    solarBirth.Format("2006-01-02"),
    req.Gender.String(),
    req.BirthTime,
  }
  if serviceCode == "match" && !partnerBirth.IsZero() {
    parts = append(parts, partnerBirth.Format("2006-01-02"), req.PartnerGender.String())
  }
  if serviceCode == "dream" {
    parts = append(parts, utils.HashText(req.DreamContent))
  }
  return utils.BuildUserKey(parts...)
}

func (s *fortuneService) serveCached(ctx context.Context, cfg *types.FortuneServiceConfig, userKey string, cached *types.FortuneResult, opts GetOptions) (*FortuneView, error) {
  s.usage.RecordCacheHit(ctx, cfg.Code, userKey, s.client.Model())
  if !opts.Share {
    return resultView(cached, true), nil
  }
  // Re-share: same narrative under a fresh code, outside the canonical
  // cache slot.
  shareCode, err := s.reserveShareCode(ctx)
  if err != nil {
    return nil, err
  }
  copyRow := &types.FortuneResult{
    ServiceCode:    cached.ServiceCode,
    UserKey:        cached.UserKey,
    Date:           cached.Date,
    ShareCode:      shareCode,
    RequestPayload: cached.RequestPayload,
    ResultText:     cached.ResultText,
    Status:         cached.Status,
    IsFromCache:    true,
  }
  if _, err := s.resultRepo.Create(ctx, nil, copyRow); err != nil {
    return nil, err
  }
  return resultView(copyRow, true), nil
}

func (s *fortuneService) createNew(ctx context.Context, cfg *types.FortuneServiceConfig, req *FortuneRequest, userKey string, today, solarBirth, partnerBirth time.Time, opts GetOptions) (*FortuneView, error) {
  shareCode, err := s.reserveShareCode(ctx)
  if err != nil {
    return nil, err
  }
  payload, err := json.Marshal(req)
  if err != nil {
    return nil, err
  }
  row := &types.FortuneResult{
    ServiceCode:    cfg.Code,
    UserKey:        userKey,
    Date:           today,
    ShareCode:      shareCode,
    RequestPayload: payload,
    Status:         types.FortuneStatusPending,
  }
  if _, err := s.resultRepo.Create(ctx, nil, row); err != nil {
    // Someone else won the canonical slot between our lookup and
    // insert. Their record is the cache entry now.
    if goerrors.Is(err, gorm.ErrDuplicatedKey) {
      existing, gErr := s.resultRepo.GetCanonical(ctx, nil, cfg.Code, userKey, today)
      if gErr != nil {
        return nil, gErr
      }
      if existing != nil {
        return resultView(existing, true), nil
      }
    }
    return nil, err
  }

  if opts.Async {
    s.log.Info("Queued fortune generation",
      "service_code", cfg.Code, "user_key", logger.ShortKey(userKey), "share_code", shareCode)
    return resultView(row, false), nil
  }

  cc := s.buildContext(cfg.Code, req, solarBirth, partnerBirth)
  view, err := s.generateInto(ctx, cfg, req, row, cc)
  if err != nil {
    return nil, err
  }
  return view, nil
}

// generateInto runs the model call and commits the row's terminal
// state. Failures are written onto the record before being returned.
func (s *fortuneService) generateInto(ctx context.Context, cfg *types.FortuneServiceConfig, req *FortuneRequest, row *types.FortuneResult, cc *ChartContext) (*FortuneView, error) {
  prompt, err := s.prompts.Build(cfg, req, cc)
  if err != nil {
    s.markError(ctx, row, err)
    return nil, err
  }
  start := s.now()
  gen, err := s.client.Generate(ctx, prompt)
  if err != nil {
    s.markError(ctx, row, err)
    return nil, err
  }
  s.usage.RecordCall(ctx, cfg.Code, row.UserKey, gen, s.now().Sub(start))

  updates := map[string]interface{}{
    "result_text": gen.Text,
    "status":      types.FortuneStatusCompleted,
    "updated_at":  s.now(),
  }
  if err := s.resultRepo.UpdateFields(ctx, nil, row.ID, updates); err != nil {
    return nil, err
  }
  row.ResultText = gen.Text
  row.Status = types.FortuneStatusCompleted
  view := resultView(row, false)
  view.Context = cc
  return view, nil
}

func (s *fortuneService) markError(ctx context.Context, row *types.FortuneResult, cause error) {
  err := s.resultRepo.UpdateFields(ctx, nil, row.ID, map[string]interface{}{
    "status":        types.FortuneStatusError,
    "error_message": cause.Error(),
    "updated_at":    s.now(),
  })
  if err != nil {
    s.log.Error("Failed to record generation error",
      "share_code", row.ShareCode, "error", err, "cause", cause)
  }
}

// buildContext assembles the chart data each service narrates over.
func (s *fortuneService) buildContext(serviceCode string, req *FortuneRequest, solarBirth, partnerBirth time.Time) *ChartContext {
  cc := &ChartContext{Zodiac: saju.ZodiacAnimal(solarBirth.Year())}
  switch serviceCode {
  case "today":
    daily := saju.DailyFortune(dateOnly(s.now()))
    cc.Daily = &daily
  case "saju":
    cc.Reading = s.analyze(req, solarBirth)
  case "match":
    chartA := saju.ComputeChart(solarBirth.Year(), int(solarBirth.Month()), solarBirth.Day(), parseBirthHour(req.BirthTime))
    chartB := saju.ComputeChart(partnerBirth.Year(), int(partnerBirth.Month()), partnerBirth.Day(), 12)
    compat := saju.Compatibility(chartA, chartB)
    cc.Compatibility = &compat
  case "newyear2026":
    cc.Reading = s.analyze(req, solarBirth)
    yearly := saju.YearFortune(2026)
    cc.Yearly = &yearly
  }
  return cc
}

func (s *fortuneService) analyze(req *FortuneRequest, solarBirth time.Time) *saju.Reading {
  hour := parseBirthHour(req.BirthTime)
  chart := saju.ComputeChart(solarBirth.Year(), int(solarBirth.Month()), solarBirth.Day(), hour)
  return saju.Analyze(chart, req.Gender, solarBirth.Year(), solarBirth.Day())
}

// parseBirthHour extracts the hour from free-form input like "14",
// "14:30" or "오후 2시". Unknown input defaults to noon.
func parseBirthHour(birthTime string) int {
  trimmed := strings.TrimSpace(birthTime)
  digits := ""
  for _, r := range trimmed {
    if r >= '0' && r <= '9' {
      digits += string(r)
      if len(digits) == 2 {
        break
      }
      continue
    }
    if digits != "" {
      break
    }
  }
  if digits == "" {
    return 12
  }
  hour, err := strconv.Atoi(digits)
  if err != nil || hour < 0 || hour > 23 {
    return 12
  }
  return hour
}

// reserveShareCode draws random codes until one is free. After the
// attempt budget the length grows by one character and the budget
// resets, so issuance degrades instead of spinning.
func (s *fortuneService) reserveShareCode(ctx context.Context) (string, error) {
  length := shareCodeBaseLength
  for {
    for attempt := 0; attempt < shareCodeAttempts; attempt++ {
      code, err := randomShareCode(length)
      if err != nil {
        return "", err
      }
      exists, err := s.resultRepo.ShareCodeExists(ctx, nil, code)
      if err != nil {
        return "", err
      }
      if !exists {
        return code, nil
      }
    }
    s.log.Warn("Share code space crowded, widening", "next_length", length+1)
    length++
  }
}

func randomShareCode(length int) (string, error) {
  buf := make([]byte, length)
  if _, err := rand.Read(buf); err != nil {
    return "", err
  }
  out := make([]byte, length)
  for i, b := range buf {
    out[i] = shareCodeAlphabet[int(b)%len(shareCodeAlphabet)]
  }
  return string(out), nil
}

func (s *fortuneService) GetByShareCode(ctx context.Context, shareCode string) (*FortuneView, error) {
  row, err := s.resultRepo.GetByShareCode(ctx, nil, shareCode)
  if err != nil {
    return nil, err
  }
  if row == nil {
    return nil, fmt.Errorf("%w: share code %s", errors.ErrNotFound, shareCode)
  }
  return resultView(row, row.IsFromCache), nil
}

// StartWorker drains pending records on a fixed cadence. It uses the
// service's own store handle, independent of any inbound request.
func (s *fortuneService) StartWorker(ctx context.Context) {
  go func() {
    ticker := time.NewTicker(1 * time.Second)
    defer ticker.Stop()

    for {
      select {
      case <-ctx.Done():
        return
      case <-ticker.C:
        row, err := s.resultRepo.ClaimNextPending(ctx, s.db, workerStaleClaim)
        if err != nil {
          s.log.Warn("ClaimNextPending failed", "error", err)
          continue
        }
        if row == nil {
          continue
        }
        s.processPending(ctx, row)
      }
    }
  }()
}

func (s *fortuneService) processPending(ctx context.Context, row *types.FortuneResult) {
  log := s.log.With("share_code", row.ShareCode, "service_code", row.ServiceCode)

  cfg, err := s.configRepo.GetByCode(ctx, nil, row.ServiceCode)
  if err != nil || cfg == nil {
    if err == nil {
      err = fmt.Errorf("%w: %s", errors.ErrServiceNotFound, row.ServiceCode)
    }
    log.Error("Pending record references unknown service", "error", err)
    s.markError(ctx, row, err)
    return
  }

  var req FortuneRequest
  if err := json.Unmarshal(row.RequestPayload, &req); err != nil {
    log.Error("Pending record payload is unreadable", "error", err)
    s.markError(ctx, row, err)
    return
  }
  solarBirth, partnerBirth, err := s.resolveSolarDates(&req)
  if err != nil {
    s.markError(ctx, row, err)
    return
  }

  cc := s.buildContext(cfg.Code, &req, solarBirth, partnerBirth)
  if _, err := s.generateInto(ctx, cfg, &req, row, cc); err != nil {
    log.Warn("Pending generation failed", "error", err)
    return
  }
  log.Info("Pending generation completed")
}

func resultView(row *types.FortuneResult, fromCache bool) *FortuneView {
  return &FortuneView{
    ServiceCode: row.ServiceCode,
    ShareCode:   row.ShareCode,
    ResultText:  row.ResultText,
    Status:      row.Status,
    IsFromCache: fromCache,
    Date:        row.Date,
  }
}

func dateOnly(t time.Time) time.Time {
  return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
