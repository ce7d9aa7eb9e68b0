package saju

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one of the five phases (오행).
type Phase int

const (
	Wood Phase = iota
	Fire
	Earth
	Metal
	Water
)

var phaseHanja = [5]string{"木", "火", "土", "金", "水"}
var phaseKorean = [5]string{"목", "화", "토", "금", "수"}

func (p Phase) Hanja() string  { return phaseHanja[p] }
func (p Phase) Korean() string { return phaseKorean[p] }

// Generates returns the phase p produces in the generation cycle
// (木生火, 火生土, 土生金, 金生水, 水生木).
func (p Phase) Generates() Phase { return (p + 1) % 5 }

// Controls returns the phase p overcomes in the control cycle
// (木克土, 土克水, 水克火, 火克金, 金克木).
func (p Phase) Controls() Phase { return (p + 2) % 5 }

// GeneratedBy returns the phase that produces p.
func (p Phase) GeneratedBy() Phase { return (p + 4) % 5 }

// ControlledBy returns the phase that overcomes p.
func (p Phase) ControlledBy() Phase { return (p + 3) % 5 }

// Stem is one of the ten heavenly stems (천간), index 0-9.
type Stem int

var stemHanja = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
var stemKorean = [10]string{"갑", "을", "병", "정", "무", "기", "경", "신", "임", "계"}

func (s Stem) Hanja() string  { return stemHanja[s] }
func (s Stem) Korean() string { return stemKorean[s] }

// Phase maps stem pairs onto phases: 甲乙 wood, 丙丁 fire, 戊己 earth,
// 庚辛 metal, 壬癸 water.
func (s Stem) Phase() Phase { return Phase(int(s) / 2) }

// Yang reports stem polarity; even indices are yang, odd are yin.
func (s Stem) Yang() bool { return int(s)%2 == 0 }

// Branch is one of the twelve earthly branches (지지), index 0-11.
type Branch int

var branchHanja = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}
var branchKorean = [12]string{"자", "축", "인", "묘", "진", "사", "오", "미", "신", "유", "술", "해"}

var branchPhase = [12]Phase{Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water}

func (b Branch) Hanja() string  { return branchHanja[b] }
func (b Branch) Korean() string { return branchKorean[b] }
func (b Branch) Phase() Phase   { return branchPhase[b] }

// Pillar is a (stem, branch) pair occupying one chart position.
type Pillar struct {
	Stem   Stem   `json:"stem"`
	Branch Branch `json:"branch"`
}

func (p Pillar) Hanja() string  { return p.Stem.Hanja() + p.Branch.Hanja() }
func (p Pillar) Korean() string { return p.Stem.Korean() + p.Branch.Korean() }

// Position names a pillar slot within a chart.
type Position int

const (
	YearPillar Position = iota
	MonthPillar
	DayPillar
	HourPillar
)

var positionKorean = [4]string{"년주", "월주", "일주", "시주"}
var stemPositionKorean = [4]string{"년간", "월간", "일간", "시간"}
var branchPositionKorean = [4]string{"년지", "월지", "일지", "시지"}

func (p Position) Korean() string       { return positionKorean[p] }
func (p Position) StemKorean() string   { return stemPositionKorean[p] }
func (p Position) BranchKorean() string { return branchPositionKorean[p] }

// Chart is the four pillars computed from one solar birth instant.
// Charts are immutable; every derived metric is a pure function of one.
type Chart struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// Pillars returns the four pillars in Year/Month/Day/Hour order.
func (c Chart) Pillars() [4]Pillar {
	return [4]Pillar{c.Year, c.Month, c.Day, c.Hour}
}

// DayMaster is the day stem, the reference point for derived metrics.
func (c Chart) DayMaster() Stem { return c.Day.Stem }

// dayCycleBase anchors the day count: 1900-01-01 maps to position 16
// of the 60-day cycle (庚辰일).
var dayCycleBase = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

const dayCycleOffset = 16

// mod returns a mod n normalized into [0, n), for negative a too.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

// DayCycleIndex returns the position of a calendar date in the 60-day
// sexagenary cycle. Plain integer day arithmetic, valid for any proleptic
// Gregorian date including dates before the 1900 anchor.
func DayCycleIndex(year, month, day int) int {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Both instants are midnight UTC, so unix-second division is an exact
	// day count. Avoids time.Duration, which caps out around 292 years.
	days := int(t.Unix()/86400 - dayCycleBase.Unix()/86400)
	return mod(days+dayCycleOffset, 60)
}

// ComputeChart computes the four pillars for a solar date and hour (0-23).
//
// Year and month pillars use calendar boundaries with a fixed epoch offset
// rather than solar-term cutovers. That approximation is the contract here;
// golden values depend on it.
func ComputeChart(year, month, day, hour int) Chart {
	yearPillar := Pillar{
		Stem:   Stem(mod(year-4, 10)),
		Branch: Branch(mod(year-4, 12)),
	}

	monthIndex := mod(year*12+month+11, 60)
	monthPillar := Pillar{
		Stem:   Stem(monthIndex % 10),
		Branch: Branch(mod(month-1, 12)),
	}

	dayIndex := DayCycleIndex(year, month, day)
	dayPillar := Pillar{
		Stem:   Stem(dayIndex % 10),
		Branch: Branch(dayIndex % 12),
	}

	// Each branch spans a two-hour block, shifted so 23:00-01:00 is 子.
	hourBranch := Branch(mod((hour+1)/2, 12))
	// Five-stem cycling rule: the hour stem follows from the day stem.
	hourStem := Stem(mod((int(dayPillar.Stem)%5)*2+int(hourBranch), 10))
	hourPillar := Pillar{Stem: hourStem, Branch: hourBranch}

	return Chart{
		Year:  yearPillar,
		Month: monthPillar,
		Day:   dayPillar,
		Hour:  hourPillar,
	}
}

// Gender selects luck-pillar direction together with year-stem polarity.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) Korean() string {
	if g == Male {
		return "남성"
	}
	return "여성"
}

// ParseGender accepts the wire values "male" and "female".
func ParseGender(s string) (Gender, error) {
	switch s {
	case "male":
		return Male, nil
	case "female":
		return Female, nil
	}
	return Male, fmt.Errorf("unknown gender %q", s)
}

func (g Gender) String() string {
	if g == Male {
		return "male"
	}
	return "female"
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return []byte(`"` + g.String() + `"`), nil
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	parsed, err := ParseGender(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

var zodiacAnimals = [12]string{"원숭이", "닭", "개", "돼지", "쥐", "소", "호랑이", "토끼", "용", "뱀", "말", "양"}

// ZodiacAnimal returns the animal sign for a birth year.
func ZodiacAnimal(year int) string { return zodiacAnimals[mod(year, 12)] }
