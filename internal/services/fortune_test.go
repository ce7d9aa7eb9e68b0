package services

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nightcat-labs/fortune-backend/internal/lunar"
	pkgerrors "github.com/nightcat-labs/fortune-backend/internal/pkg/errors"
	"github.com/nightcat-labs/fortune-backend/internal/pkg/logger"
	"github.com/nightcat-labs/fortune-backend/internal/repos"
	"github.com/nightcat-labs/fortune-backend/internal/saju"
	"github.com/nightcat-labs/fortune-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.FortuneServiceConfig{}, &types.FortuneResult{}, &types.APIUsageLog{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

type stubClient struct {
	calls int
	gen   *Generation
	err   error
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (*Generation, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.gen, nil
}

func (s *stubClient) Model() string { return "gemini-2.0-flash" }

func fixedNow() time.Time {
	return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
}

func newTestFortuneService(t *testing.T, client GenerativeClient) (*fortuneService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	log := logger.NewNop()
	svc := &fortuneService{
		db:           db,
		resultRepo:   repos.NewFortuneResultRepo(db, log),
		configRepo:   repos.NewFortuneServiceConfigRepo(db, log),
		client:       client,
		usage:        NewUsageRecorder(repos.NewAPIUsageLogRepo(db, log), log),
		converter:    lunar.NewConverter(),
		prompts:      newPromptBuilder(fixedNow),
		log:          log,
		cacheEnabled: true,
		now:          fixedNow,
	}
	return svc, db
}

func seedConfig(t *testing.T, db *gorm.DB, code, character string) *types.FortuneServiceConfig {
	t.Helper()
	cfg := &types.FortuneServiceConfig{
		Code:           code,
		Title:          code,
		CharacterName:  character,
		CharacterEmoji: "✨",
		IsActive:       true,
	}
	if err := db.Create(cfg).Error; err != nil {
		t.Fatalf("failed to seed config %s: %v", code, err)
	}
	return cfg
}

func baseRequest() *FortuneRequest {
	return &FortuneRequest{
		Name:      "홍길동",
		Birthdate: time.Date(1990, 6, 2, 0, 0, 0, 0, time.UTC),
		Gender:    saju.Male,
		BirthTime: "14",
	}
}

func TestGetOrCreateGeneratesThenServesCache(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "오늘의 운세입니다.", Model: "gemini-2.0-flash", PromptTokens: 100, CompletionTokens: 200, TotalTokens: 300}}
	svc, db := newTestFortuneService(t, client)
	seedConfig(t, db, "today", "야광묘")
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if first.Status != types.FortuneStatusCompleted {
		t.Fatalf("status = %q, want completed", first.Status)
	}
	if first.ResultText != "오늘의 운세입니다." {
		t.Fatalf("result text = %q", first.ResultText)
	}
	if first.IsFromCache {
		t.Fatalf("first call must not be a cache hit")
	}
	if len(first.ShareCode) != shareCodeBaseLength {
		t.Fatalf("share code %q has length %d", first.ShareCode, len(first.ShareCode))
	}
	if first.Context == nil || first.Context.Daily == nil {
		t.Fatalf("today view should carry its daily context")
	}

	second, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{})
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	if !second.IsFromCache {
		t.Fatalf("second call should hit the cache")
	}
	if second.ShareCode != first.ShareCode {
		t.Fatalf("cache hit returned a new share code")
	}
	if client.calls != 1 {
		t.Fatalf("model calls = %d, want 1", client.calls)
	}

	var usage []types.APIUsageLog
	if err := db.Find(&usage).Error; err != nil {
		t.Fatalf("failed to load usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("usage rows = %d, want 2", len(usage))
	}
	hits := 0
	for _, u := range usage {
		if u.CacheHit {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("cache-hit usage rows = %d, want 1", hits)
	}
}

func TestGetOrCreateShareCopiesCachedNarrative(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "결과", Model: "gemini-2.0-flash"}}
	svc, db := newTestFortuneService(t, client)
	seedConfig(t, db, "today", "야광묘")
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	shared, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{Share: true})
	if err != nil {
		t.Fatalf("share call failed: %v", err)
	}
	if !shared.IsFromCache {
		t.Fatalf("share view should be a cache copy")
	}
	if shared.ShareCode == first.ShareCode {
		t.Fatalf("share copy reused code %q", first.ShareCode)
	}
	if shared.ResultText != first.ResultText {
		t.Fatalf("share copy text = %q, want %q", shared.ResultText, first.ResultText)
	}
	if client.calls != 1 {
		t.Fatalf("model calls = %d, want 1", client.calls)
	}

	var copies int64
	if err := db.Model(&types.FortuneResult{}).Where("is_from_cache = ?", true).Count(&copies).Error; err != nil {
		t.Fatalf("failed to count copies: %v", err)
	}
	if copies != 1 {
		t.Fatalf("cache copies = %d, want 1", copies)
	}
}

func TestGetOrCreateUnknownAndInactiveService(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "x", Model: "gemini-2.0-flash"}}
	svc, db := newTestFortuneService(t, client)
	ctx := context.Background()

	if _, err := svc.GetOrCreate(ctx, "missing", baseRequest(), GetOptions{}); !goerrors.Is(err, pkgerrors.ErrServiceNotFound) {
		t.Fatalf("unknown service error = %v", err)
	}

	seedConfig(t, db, "today", "야광묘")
	if err := db.Model(&types.FortuneServiceConfig{}).Where("code = ?", "today").Update("is_active", false).Error; err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}
	if _, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{}); !goerrors.Is(err, pkgerrors.ErrServiceInactive) {
		t.Fatalf("inactive service error = %v", err)
	}
}

func TestGetOrCreateValidation(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "x", Model: "gemini-2.0-flash"}}
	svc, db := newTestFortuneService(t, client)
	seedConfig(t, db, "today", "야광묘")
	seedConfig(t, db, "match", "월하낭자")
	seedConfig(t, db, "dream", "백운선생")
	ctx := context.Background()

	if _, err := svc.GetOrCreate(ctx, "today", &FortuneRequest{}, GetOptions{}); !goerrors.Is(err, pkgerrors.ErrMissingBirthInfo) {
		t.Fatalf("missing birthdate error = %v", err)
	}
	if _, err := svc.GetOrCreate(ctx, "match", baseRequest(), GetOptions{}); !goerrors.Is(err, pkgerrors.ErrMissingBirthInfo) {
		t.Fatalf("missing partner error = %v", err)
	}
	if _, err := svc.GetOrCreate(ctx, "dream", baseRequest(), GetOptions{}); !goerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("missing dream content error = %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("model calls = %d, want 0", client.calls)
	}
}

func TestGetOrCreateAsyncThenWorkerCompletes(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "사주 풀이", Model: "gemini-2.0-flash"}}
	svc, db := newTestFortuneService(t, client)
	seedConfig(t, db, "saju", "청월아씨")
	ctx := context.Background()

	view, err := svc.GetOrCreate(ctx, "saju", baseRequest(), GetOptions{Async: true})
	if err != nil {
		t.Fatalf("async call failed: %v", err)
	}
	if view.Status != types.FortuneStatusPending {
		t.Fatalf("status = %q, want pending", view.Status)
	}
	if view.ResultText != "" || client.calls != 0 {
		t.Fatalf("async call must not generate")
	}

	row, err := svc.resultRepo.ClaimNextPending(ctx, db, workerStaleClaim)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if row == nil || row.ShareCode != view.ShareCode {
		t.Fatalf("claimed row = %+v", row)
	}
	if again, err := svc.resultRepo.ClaimNextPending(ctx, db, workerStaleClaim); err != nil || again != nil {
		t.Fatalf("fresh claim should not be retaken: %+v %v", again, err)
	}

	svc.processPending(ctx, row)
	if client.calls != 1 {
		t.Fatalf("model calls = %d, want 1", client.calls)
	}

	done, err := svc.GetByShareCode(ctx, view.ShareCode)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if done.Status != types.FortuneStatusCompleted || done.ResultText != "사주 풀이" {
		t.Fatalf("worker result = %+v", done)
	}
}

func TestGetOrCreateGenerationFailureIsRecorded(t *testing.T) {
	client := &stubClient{err: fmt.Errorf("model unavailable")}
	svc, db := newTestFortuneService(t, client)
	seedConfig(t, db, "today", "야광묘")
	ctx := context.Background()

	if _, err := svc.GetOrCreate(ctx, "today", baseRequest(), GetOptions{}); err == nil {
		t.Fatalf("expected generation failure")
	}

	var row types.FortuneResult
	if err := db.Where("service_code = ?", "today").First(&row).Error; err != nil {
		t.Fatalf("failed to load row: %v", err)
	}
	if row.Status != types.FortuneStatusError {
		t.Fatalf("status = %q, want error", row.Status)
	}
	if !strings.Contains(row.ErrorMessage, "model unavailable") {
		t.Fatalf("error message = %q", row.ErrorMessage)
	}
}

func TestCreateNewLosingInsertRaceReturnsWinner(t *testing.T) {
	client := &stubClient{gen: &Generation{Text: "승자", Model: "gemini-2.0-flash"}}
	svc, db := newTestFortuneService(t, client)
	cfg := seedConfig(t, db, "today", "야광묘")
	ctx := context.Background()

	req := baseRequest()
	solar, partner, err := svc.resolveSolarDates(req)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	userKey := svc.buildUserKey("today", req, solar, partner)
	today := dateOnly(svc.now())

	winner := &types.FortuneResult{
		ServiceCode: "today",
		UserKey:     userKey,
		Date:        today,
		ShareCode:   "winner01",
		ResultText:  "먼저 생성된 결과",
		Status:      types.FortuneStatusCompleted,
	}
	if err := db.Create(winner).Error; err != nil {
		t.Fatalf("failed to insert winner: %v", err)
	}

	view, err := svc.createNew(ctx, cfg, req, userKey, today, solar, partner, GetOptions{})
	if err != nil {
		t.Fatalf("losing insert should fall back to the winner: %v", err)
	}
	if !view.IsFromCache || view.ShareCode != "winner01" {
		t.Fatalf("view = %+v, want the winner's record", view)
	}
	if client.calls != 0 {
		t.Fatalf("model calls = %d, want 0", client.calls)
	}
}

func TestGetByShareCodeUnknown(t *testing.T) {
	client := &stubClient{}
	svc, _ := newTestFortuneService(t, client)
	if _, err := svc.GetByShareCode(context.Background(), "nope1234"); !goerrors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("unknown share code error = %v", err)
	}
}

func TestBuildUserKeyFoldsInServiceInputs(t *testing.T) {
	svc := &fortuneService{}
	base := baseRequest()
	solar := base.Birthdate
	partnerDate := time.Date(1992, 3, 1, 0, 0, 0, 0, time.UTC)

	plain := svc.buildUserKey("today", base, solar, time.Time{})
	if plain != svc.buildUserKey("today", base, solar, time.Time{}) {
		t.Fatalf("user key not deterministic")
	}

	other := *base
	other.BirthTime = "07"
	if svc.buildUserKey("today", &other, solar, time.Time{}) == plain {
		t.Fatalf("birth time should change the key")
	}

	withPartner := *base
	withPartner.PartnerBirthdate = partnerDate
	withPartner.PartnerGender = saju.Female
	matchKey := svc.buildUserKey("match", &withPartner, solar, partnerDate)
	if matchKey == plain {
		t.Fatalf("partner data should change the key")
	}
	otherPartner := withPartner
	otherPartner.PartnerGender = saju.Male
	if svc.buildUserKey("match", &otherPartner, solar, partnerDate) == matchKey {
		t.Fatalf("partner gender should change the key")
	}

	withDream := *base
	withDream.DreamContent = "하늘을 나는 꿈"
	dreamKey := svc.buildUserKey("dream", &withDream, solar, time.Time{})
	otherDream := *base
	otherDream.DreamContent = "물에 빠지는 꿈"
	if svc.buildUserKey("dream", &otherDream, solar, time.Time{}) == dreamKey {
		t.Fatalf("dream content should change the key")
	}
}

func TestParseBirthHour(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 12},
		{"모름", 12},
		{"14", 14},
		{"14:30", 14},
		{"7", 7},
		{"오후 2시", 2},
		{"99", 12},
		{"23", 23},
		{"0", 0},
	}
	for _, tc := range cases {
		if got := parseBirthHour(tc.in); got != tc.want {
			t.Fatalf("parseBirthHour(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestRandomShareCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := randomShareCode(shareCodeBaseLength)
		if err != nil {
			t.Fatalf("randomShareCode failed: %v", err)
		}
		if len(code) != shareCodeBaseLength {
			t.Fatalf("code %q has length %d", code, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(shareCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("codes are not random")
	}
}

func TestResolveSolarDatesLunarInput(t *testing.T) {
	svc := &fortuneService{converter: lunar.NewConverter()}
	req := &FortuneRequest{
		Birthdate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Calendar:  "lunar",
	}
	solar, _, err := svc.resolveSolarDates(req)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	want := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if !solar.Equal(want) {
		t.Fatalf("solar date = %v, want %v", solar, want)
	}

	req.Birthdate = time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if _, _, err := svc.resolveSolarDates(req); !goerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("invalid lunar date error = %v", err)
	}
}
