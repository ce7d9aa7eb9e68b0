package services

import (
  "fmt"
  "strings"
  "time"

  "github.com/nightcat-labs/fortune-backend/internal/pkg/errors"
  "github.com/nightcat-labs/fortune-backend/internal/saju"
  "github.com/nightcat-labs/fortune-backend/internal/types"
)

// ChartContext carries the computed calendar data that gets folded into
// a prompt and returned alongside the narrative for presentation reuse.
type ChartContext struct {
  Reading       *saju.Reading             `json:"reading,omitempty"`
  Daily         *saju.DailyInfo           `json:"daily,omitempty"`
  Yearly        *saju.YearlyInfo          `json:"yearly,omitempty"`
  Compatibility *saju.CompatibilityResult `json:"compatibility,omitempty"`
  Zodiac        string                    `json:"zodiac,omitempty"`
}

type promptBuilder struct {
  now func() time.Time
}

func newPromptBuilder(now func() time.Time) *promptBuilder {
  if now == nil {
    now = time.Now
  }
  return &promptBuilder{now: now}
}

func (p *promptBuilder) Build(cfg *types.FortuneServiceConfig, req *FortuneRequest, cc *ChartContext) (string, error) {
  if cfg.PromptTemplate != "" {
    return p.formatCustomTemplate(cfg.PromptTemplate, req), nil
  }
  switch cfg.Code {
  case "today":
    return p.buildToday(cfg, req, cc), nil
  case "saju":
    return p.buildSaju(cfg, req, cc), nil
  case "match":
    return p.buildMatch(cfg, req, cc), nil
  case "dream":
    return p.buildDream(cfg, req), nil
  case "newyear2026":
    return p.buildNewYear(cfg, req, cc), nil
  default:
    return "", fmt.Errorf("%w: no prompt for service code %q", errors.ErrInvalidArgument, cfg.Code)
  }
}

// formatCustomTemplate substitutes {field} placeholders the way operator
// templates expect.
func (p *promptBuilder) formatCustomTemplate(template string, req *FortuneRequest) string {
  replacer := strings.NewReplacer(
    "{name}", req.displayName(),
    "{birthdate}", req.Birthdate.Format("2006-01-02"),
    "{gender}", req.Gender.Korean(),
    "{birth_time}", req.displayBirthTime(),
    "{calendar}", calendarKorean(req.Calendar),
    "{partner_name}", req.displayPartnerName(),
    "{partner_birthdate}", req.PartnerBirthdate.Format("2006-01-02"),
    "{partner_gender}", req.PartnerGender.Korean(),
    "{dream_content}", req.DreamContent,
  )
  return replacer.Replace(template)
}

func calendarKorean(calendar string) string {
  if calendar == "lunar" {
    return "음력"
  }
  return "양력"
}

func (p *promptBuilder) buildToday(cfg *types.FortuneServiceConfig, req *FortuneRequest, cc *ChartContext) string {
  name := req.displayName()
  todayStr := p.now().Format("2006년 01월 02일")
  return fmt.Sprintf(`당신은 귀여운 %s 캐릭터입니다. 친근하고 밝은 말투로 오늘의 운세를 알려주세요.

[의뢰인 정보]
- 이름: %s
- 생년월일: %s
- 성별: %s
- 띠: %s
- 오늘 날짜: %s

%s다음 형식으로 작성해주세요:

**인사말**
%s님, 안녕하세요! %s예요~ 오늘 하루 운세를 봐드릴게요! %s

**오늘의 기운**
오늘의 전반적인 에너지와 분위기를 설명해주세요. (3-4문장)

**오늘 조심할 것**
오늘 주의해야 할 점을 2-3가지 알려주세요.

**행운의 색**
오늘의 행운의 색 하나 (예: 노란색)

**행운의 숫자**
오늘의 행운의 숫자 하나 (1-99)

**행운의 방향**
오늘의 행운의 방향 하나 (동/서/남/북)

**%s의 한마디**
오늘 하루를 응원하는 짧은 메시지 (1-2문장)

[작성 가이드]
- 친근하고 귀여운 말투 ("~예요", "~해요")
- 구체적이고 실용적인 조언
- 긍정적이고 응원하는 톤
- 총 300-400자 내외

위 형식을 정확히 지켜서 작성해주세요!`,
    cfg.CharacterName,
    name,
    req.Birthdate.Format("2006-01-02"),
    req.Gender.Korean(),
    cc.Zodiac,
    todayStr,
    formatDailyBlock(cc.Daily),
    name, cfg.CharacterName, cfg.CharacterEmoji,
    cfg.CharacterName,
  )
}

func (p *promptBuilder) buildSaju(cfg *types.FortuneServiceConfig, req *FortuneRequest, cc *ChartContext) string {
  name := req.displayName()
  return fmt.Sprintf(`당신은 30년 경력의 전문 명리학자 %s입니다. 전통 사주명리학을 바탕으로 친절하고 정확하게 운세를 풀어주세요.

[기본 정보]
- 이름: %s
- 생년월일: %s (%s)
- 성별: %s
- 태어난 시간: %s

%s다음 형식으로 작성해주세요:

**인사말**
%s님, 안녕하세요. %s입니다. 당신의 사주를 깊이 살펴보았습니다.

**1. 전체적인 성격과 특징**
- 타고난 성품과 기질 (4-5문장)
- 장점과 강점
- 주의해야 할 성격적 특징

**2. 2025년 운세**
- 전반적인 흐름
- 좋은 시기와 조심할 시기
- 기회와 도전

**3. 직업운과 재물운**
- 적합한 직업 분야
- 재물을 모으는 방법
- 사업이나 투자 관련 조언

**4. 연애운과 결혼운**
- 이성관계의 특징
- 좋은 인연을 만나는 시기
- 배우자와의 궁합 (일반적인 조언)

**5. 건강운**
- 주의해야 할 건강 부위
- 건강 관리 방법

**6. 한 줄 조언**
- 인생을 살아가는 데 도움이 될 한 마디

[작성 가이드]
- 각 섹션은 **1. 제목** 형식으로 명확히 구분
- 전문적이지만 이해하기 쉬운 표현
- 긍정적이면서도 현실적인 조언
- 존댓말 사용
- 총 1000-1200자 내외

위 형식을 정확히 지켜서 작성해주세요!`,
    cfg.CharacterName,
    name,
    req.Birthdate.Format("2006-01-02"), calendarKorean(req.Calendar),
    req.Gender.Korean(),
    req.displayBirthTime(),
    formatReadingBlock(cc.Reading),
    name, cfg.CharacterName,
  )
}

func (p *promptBuilder) buildMatch(cfg *types.FortuneServiceConfig, req *FortuneRequest, cc *ChartContext) string {
  name := req.displayName()
  partnerName := req.displayPartnerName()
  return fmt.Sprintf(`당신은 연애와 인연을 전문으로 보는 %s입니다. 두 사람의 궁합을 따뜻하고 섬세하게 풀어주세요.

[첫 번째 분 정보]
- 이름: %s
- 생년월일: %s
- 성별: %s

[두 번째 분 정보]
- 이름: %s
- 생년월일: %s
- 성별: %s

%s다음 형식으로 작성해주세요:

**인사말**
%s님과 %s님, 안녕하세요. %s입니다. 두 분의 인연을 살펴보았습니다.

**1. 전체적인 궁합도**
- 두 사람의 전반적인 궁합 (70점 만점 형식으로)
- 잘 맞는 부분
- 조심해야 할 부분

**2. 연애운**
- 연애할 때의 케미
- 서로에게 끌리는 이유
- 연애 중 주의사항

**3. 결혼운**
- 결혼 생활의 전망
- 가정을 꾸릴 때의 조화
- 부부로서의 장단점

**4. 소통과 이해**
- 대화 스타일의 차이
- 서로를 이해하는 방법
- 갈등 해결 조언

**5. 조언**
- 두 사람이 행복하기 위한 한 마디

[작성 가이드]
- 따뜻하고 긍정적인 톤
- 현실적이면서도 희망적인 조언
- 존댓말 사용
- 총 800-1000자 내외

위 형식을 정확히 지켜서 작성해주세요!`,
    cfg.CharacterName,
    name, req.Birthdate.Format("2006-01-02"), req.Gender.Korean(),
    partnerName, req.PartnerBirthdate.Format("2006-01-02"), req.PartnerGender.Korean(),
    formatCompatibilityBlock(cc.Compatibility),
    name, partnerName, cfg.CharacterName,
  )
}

func (p *promptBuilder) buildDream(cfg *types.FortuneServiceConfig, req *FortuneRequest) string {
  name := req.displayName()
  return fmt.Sprintf(`당신은 꿈 해석의 대가 %s입니다. 전통 꿈해몽과 현대 심리학을 결합하여 꿈의 의미를 풀어주세요.

[의뢰인 정보]
- 이름: %s

[꿈 내용]
%s

다음 형식으로 작성해주세요:

**인사말**
%s님, 안녕하세요. %s입니다. 흥미로운 꿈을 꾸셨군요.

**1. 꿈의 전체적인 의미**
- 이 꿈이 나타내는 전반적인 메시지 (3-4문장)

**2. 주요 상징 해석**
- 꿈에 나온 주요 상징물/인물/상황의 의미
- 각각이 뜻하는 바

**3. 재물운**
- 이 꿈과 관련된 재물운
- 재물과 관련된 조언

**4. 건강운**
- 이 꿈이 알려주는 건강 관련 메시지
- 주의할 점

**5. 심리 상태**
- 현재 당신의 내면 상태
- 무의식의 메시지

**6. 조언**
- 이 꿈을 바탕으로 한 실천적 조언

[작성 가이드]
- 전문적이지만 이해하기 쉽게
- 긍정적이면서도 실용적인 조언
- 존댓말 사용
- 총 700-900자 내외

위 형식을 정확히 지켜서 작성해주세요!`,
    cfg.CharacterName,
    name,
    req.DreamContent,
    name, cfg.CharacterName,
  )
}

func (p *promptBuilder) buildNewYear(cfg *types.FortuneServiceConfig, req *FortuneRequest, cc *ChartContext) string {
  name := req.displayName()
  return fmt.Sprintf(`당신은 새해의 운을 읽어주는 %s입니다. 2026년 병오년의 기운을 바탕으로 신년운세를 풀어주세요.

[의뢰인 정보]
- 이름: %s
- 생년월일: %s (%s)
- 성별: %s
- 띠: %s

%s%s다음 형식으로 작성해주세요:

**인사말**
%s님, 안녕하세요! %s예요. 2026년 병오년의 운세를 봐드릴게요! %s

**1. 2026년 전체 흐름**
- 병오년이 당신에게 주는 전반적인 기운 (3-4문장)

**2. 상반기 운세 (1월-6월)**
- 주요 흐름과 기회
- 조심할 시기

**3. 하반기 운세 (7월-12월)**
- 주요 흐름과 기회
- 조심할 시기

**4. 재물운과 직업운**
- 한 해의 금전 흐름
- 일과 커리어 조언

**5. 건강과 인간관계**
- 챙겨야 할 건강 포인트
- 인연과 관계의 흐름

**6. 새해 조언**
- 2026년을 잘 보내기 위한 한 마디

[작성 가이드]
- 희망차고 따뜻한 톤
- 구체적이고 실용적인 조언
- 존댓말 사용
- 총 800-1000자 내외

위 형식을 정확히 지켜서 작성해주세요!`,
    cfg.CharacterName,
    name,
    req.Birthdate.Format("2006-01-02"), calendarKorean(req.Calendar),
    req.Gender.Korean(),
    cc.Zodiac,
    formatReadingBlock(cc.Reading),
    formatYearlyBlock(cc.Yearly),
    name, cfg.CharacterName, cfg.CharacterEmoji,
  )
}

func formatReadingBlock(r *saju.Reading) string {
  if r == nil {
    return ""
  }
  var b strings.Builder
  b.WriteString("[사주 분석 데이터]\n")
  pillars := r.Chart.Pillars()
  for i, pillar := range pillars {
    b.WriteString(fmt.Sprintf("- %s: %s(%s)\n", saju.Position(i).Korean(), pillar.Hanja(), pillar.Korean()))
  }
  b.WriteString(fmt.Sprintf("- 일간: %s(%s)\n", r.DayMaster.Hanja(), r.DayMaster.Phase().Korean()))
  b.WriteString(fmt.Sprintf("- 띠: %s띠\n", r.Zodiac))
  parts := make([]string, 0, 5)
  for i, stat := range r.Phases {
    parts = append(parts, fmt.Sprintf("%s %d개(%s)", saju.Phase(i).Korean(), stat.Count, stat.Band))
  }
  b.WriteString("- 오행 분포: " + strings.Join(parts, ", ") + "\n")
  b.WriteString(fmt.Sprintf("- 신강신약: %s\n", r.Strength.Band))
  b.WriteString(fmt.Sprintf("- 용신: %s, 희신: %s, 기신: %s\n",
    r.Elements.Favorable.Korean(), r.Elements.Supportive.Korean(), r.Elements.Unfavorable.Korean()))
  b.WriteString(fmt.Sprintf("- 합충형해: %s\n", r.Interactions.Summary))
  if len(r.Stars) > 0 {
    names := make([]string, 0, len(r.Stars))
    for _, star := range r.Stars {
      names = append(names, star.Name)
    }
    b.WriteString("- 신살: " + strings.Join(names, ", ") + "\n")
  }
  direction := "역행"
  if r.Luck.Forward {
    direction = "순행"
  }
  b.WriteString(fmt.Sprintf("- 대운: %d세부터 %s\n\n", r.Luck.StartAge, direction))
  return b.String()
}

func formatDailyBlock(d *saju.DailyInfo) string {
  if d == nil {
    return ""
  }
  var b strings.Builder
  b.WriteString("[오늘의 일진]\n")
  b.WriteString(fmt.Sprintf("- 일진: %s(%s)\n", d.Pillar.Hanja(), d.Pillar.Korean()))
  b.WriteString(fmt.Sprintf("- 십이신: %s (%s)\n", d.Star, d.Luck))
  b.WriteString("- 하면 좋은 일: " + strings.Join(d.Recommended, ", ") + "\n")
  b.WriteString("- 피할 일: " + strings.Join(d.Avoided, ", ") + "\n")
  b.WriteString(fmt.Sprintf("- 풀이: %s\n\n", d.Description))
  return b.String()
}

func formatYearlyBlock(y *saju.YearlyInfo) string {
  if y == nil {
    return ""
  }
  var b strings.Builder
  b.WriteString(fmt.Sprintf("[%d년 세운]\n", y.Year))
  b.WriteString(fmt.Sprintf("- 년주: %s(%s)\n", y.Pillar.Hanja(), y.Pillar.Korean()))
  b.WriteString(fmt.Sprintf("- 오행: %s\n", y.Phase.Korean()))
  b.WriteString(fmt.Sprintf("- 풀이: %s\n\n", y.Description))
  return b.String()
}

func formatCompatibilityBlock(c *saju.CompatibilityResult) string {
  if c == nil {
    return ""
  }
  var b strings.Builder
  b.WriteString("[궁합 분석 데이터]\n")
  b.WriteString(fmt.Sprintf("- 첫 번째 분 일주: %s(%s)\n", c.DayPillarA.Hanja(), c.DayPillarA.Korean()))
  b.WriteString(fmt.Sprintf("- 두 번째 분 일주: %s(%s)\n", c.DayPillarB.Hanja(), c.DayPillarB.Korean()))
  b.WriteString(fmt.Sprintf("- 오행 관계: %s\n", c.PhaseRelation.Note))
  b.WriteString(fmt.Sprintf("- 지지 관계: %s\n", c.BranchRelation.Note))
  if c.StemCombination {
    b.WriteString("- 천간합: 있음\n")
  }
  b.WriteString(fmt.Sprintf("- 궁합 점수: %d점 (%s)\n\n", c.Score, c.Label))
  return b.String()
}
