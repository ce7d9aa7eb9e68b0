package services

import (
	goerrors "errors"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/nightcat-labs/fortune-backend/internal/pkg/errors"
	"github.com/nightcat-labs/fortune-backend/internal/saju"
	"github.com/nightcat-labs/fortune-backend/internal/types"
)

func testConfig(code, character string) *types.FortuneServiceConfig {
	return &types.FortuneServiceConfig{
		Code:           code,
		CharacterName:  character,
		CharacterEmoji: "🐱✨",
	}
}

func testContext(code string, req *FortuneRequest) *ChartContext {
	birth := req.Birthdate
	cc := &ChartContext{Zodiac: saju.ZodiacAnimal(birth.Year())}
	chart := saju.ComputeChart(birth.Year(), int(birth.Month()), birth.Day(), 14)
	switch code {
	case "today":
		daily := saju.DailyFortune(fixedNow())
		cc.Daily = &daily
	case "saju":
		cc.Reading = saju.Analyze(chart, req.Gender, birth.Year(), birth.Day())
	case "match":
		partner := saju.ComputeChart(1992, 3, 1, 12)
		compat := saju.Compatibility(chart, partner)
		cc.Compatibility = &compat
	case "newyear2026":
		cc.Reading = saju.Analyze(chart, req.Gender, birth.Year(), birth.Day())
		yearly := saju.YearFortune(2026)
		cc.Yearly = &yearly
	}
	return cc
}

func TestBuildTodayPrompt(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := baseRequest()
	prompt, err := p.Build(testConfig("today", "야광묘"), req, testContext("today", req))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, want := range []string{"야광묘", "홍길동", "[오늘의 일진]", "2026년 08월 30일", "행운의 색"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("today prompt missing %q", want)
		}
	}
}

func TestBuildSajuPrompt(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := baseRequest()
	prompt, err := p.Build(testConfig("saju", "청월아씨"), req, testContext("saju", req))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, want := range []string{"청월아씨", "[사주 분석 데이터]", "일간", "오행 분포", "대운", "1990-06-02"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("saju prompt missing %q", want)
		}
	}
}

func TestBuildMatchPrompt(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := baseRequest()
	req.PartnerName = "성춘향"
	req.PartnerBirthdate = time.Date(1992, 3, 1, 0, 0, 0, 0, time.UTC)
	req.PartnerGender = saju.Female
	prompt, err := p.Build(testConfig("match", "월하낭자"), req, testContext("match", req))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, want := range []string{"월하낭자", "성춘향", "[궁합 분석 데이터]", "궁합 점수"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("match prompt missing %q", want)
		}
	}
}

func TestBuildDreamPrompt(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := baseRequest()
	req.DreamContent = "용이 하늘로 올라가는 꿈"
	prompt, err := p.Build(testConfig("dream", "백운선생"), req, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, want := range []string{"백운선생", "용이 하늘로 올라가는 꿈", "주요 상징 해석"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("dream prompt missing %q", want)
		}
	}
}

func TestBuildNewYearPrompt(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := baseRequest()
	prompt, err := p.Build(testConfig("newyear2026", "야광묘"), req, testContext("newyear2026", req))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	for _, want := range []string{"병오년", "[사주 분석 데이터]", "[2026년 세운]", "상반기 운세"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("new year prompt missing %q", want)
		}
	}
}

func TestBuildUnknownCode(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	if _, err := p.Build(testConfig("mystery", "x"), baseRequest(), nil); !goerrors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("unknown code error = %v", err)
	}
}

func TestBuildCustomTemplateOverrides(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	cfg := testConfig("today", "야광묘")
	cfg.PromptTemplate = "{name}님({gender}, {birthdate} {calendar})의 운세를 봐줘. 태어난 시간: {birth_time}"

	req := baseRequest()
	req.Calendar = "lunar"
	prompt, err := p.Build(cfg, req, nil)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	want := "홍길동님(남성, 1990-06-02 음력)의 운세를 봐줘. 태어난 시간: 14"
	if prompt != want {
		t.Fatalf("custom prompt = %q, want %q", prompt, want)
	}
}

func TestBuildDefaultsForAnonymousRequest(t *testing.T) {
	p := newPromptBuilder(fixedNow)
	req := &FortuneRequest{Birthdate: time.Date(1990, 6, 2, 0, 0, 0, 0, time.UTC)}
	prompt, err := p.Build(testConfig("saju", "청월아씨"), req, testContext("saju", req))
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(prompt, "고객") {
		t.Fatalf("anonymous prompt should address 고객")
	}
	if !strings.Contains(prompt, "모름") {
		t.Fatalf("unknown birth time should read 모름")
	}
}
