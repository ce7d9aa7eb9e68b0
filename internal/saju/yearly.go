package saju

import (
	"fmt"
	"time"
)

// MonthGanzhi is one month's pillar within a year.
type MonthGanzhi struct {
	Month  int    `json:"month"`
	Pillar Pillar `json:"pillar"`
}

// LuckyDay marks a sampled highly auspicious date within a year.
type LuckyDay struct {
	Date   time.Time `json:"date"`
	Ganzhi string    `json:"ganzhi"`
	Star   string    `json:"star"`
}

// YearlyInfo is the sexagenary summary of one calendar year.
type YearlyInfo struct {
	Year        int           `json:"year"`
	Pillar      Pillar        `json:"pillar"`
	Phase       Phase         `json:"phase"`
	Months      []MonthGanzhi `json:"months"`
	LuckyDays   []LuckyDay    `json:"lucky_days"`
	Description string        `json:"description"`
}

// monthStemStart maps the year stem to the stem index its first month
// opens on (갑기년은 병인월부터).
var monthStemStart = map[Stem]int{
	0: 2, 5: 2, // 甲, 己 -> 丙
	1: 4, 6: 4, // 乙, 庚 -> 戊
	2: 6, 7: 6, // 丙, 辛 -> 庚
	3: 8, 8: 8, // 丁, 壬 -> 壬
	4: 0, 9: 0, // 戊, 癸 -> 甲
}

// monthBranchStart: month branches run from 寅.
const monthBranchStart = 2

// luckyStarSet: only the four most auspicious stars count as lucky-day
// markers in the yearly scan.
var luckyStarSet = map[string]bool{"청룡": true, "명당": true, "금궤": true, "천덕": true}

const (
	luckyDayLimit    = 12
	luckyDaySampling = 10 // days between sampled dates
)

// YearFortune summarizes a year: its pillar (anchored on 1984 = 갑자),
// the twelve month pillars, and up to twelve sampled lucky days.
func YearFortune(year int) YearlyInfo {
	idx := mod(year-1984, 60)
	pillar := Pillar{Stem: Stem(idx % 10), Branch: Branch(idx % 12)}

	startStem := monthStemStart[pillar.Stem]
	months := make([]MonthGanzhi, 0, 12)
	for m := 1; m <= 12; m++ {
		months = append(months, MonthGanzhi{
			Month: m,
			Pillar: Pillar{
				Stem:   Stem(mod(startStem+m-1, 10)),
				Branch: Branch(mod(monthBranchStart+m-1, 12)),
			},
		})
	}

	return YearlyInfo{
		Year:      year,
		Pillar:    pillar,
		Phase:     pillar.Stem.Phase(),
		Months:    months,
		LuckyDays: scanLuckyDays(year),
		Description: fmt.Sprintf("%d년은 %s년으로, %s의 기운이 강한 해입니다.",
			year, pillar.Hanja(), pillar.Stem.Phase().Hanja()),
	}
}

// scanLuckyDays samples the year every ten days and keeps the dates whose
// daily star is one of the four most auspicious. The sampling stride keeps
// the scan cheap; it is deliberately not exhaustive.
func scanLuckyDays(year int) []LuckyDay {
	var lucky []LuckyDay
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 365; offset += luckyDaySampling {
		date := start.AddDate(0, 0, offset)
		if date.Year() != year {
			break
		}
		info := DailyFortune(date)
		if luckyStarSet[info.Star] {
			lucky = append(lucky, LuckyDay{
				Date:   date,
				Ganzhi: info.Pillar.Korean(),
				Star:   info.Star,
			})
			if len(lucky) >= luckyDayLimit {
				break
			}
		}
	}
	return lucky
}
