package saju

import (
	"testing"
	"time"
)

func TestDailyFortuneKnownDate(t *testing.T) {
	// 1990-06-02 has day pillar 甲辰 (cycle index 40).
	info := DailyFortune(time.Date(1990, 6, 2, 14, 30, 0, 0, time.UTC))

	if info.Pillar.Stem != 0 || info.Pillar.Branch != 4 {
		t.Fatalf("day pillar = %s, want 甲辰", info.Pillar.Hanja())
	}
	if info.Phase != Wood {
		t.Fatalf("phase = %v, want Wood", info.Phase)
	}
	// Star index = (branch + month - 1) mod 12 = (4 + 5) mod 12 = 9.
	if info.Star != "현무" {
		t.Fatalf("star = %q, want 현무", info.Star)
	}
	if info.Luck != GreatMisfort {
		t.Fatalf("luck = %q, want %q", info.Luck, GreatMisfort)
	}
}

func TestDailyFortuneNormalizesDate(t *testing.T) {
	info := DailyFortune(time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC))
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !info.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", info.Date, want)
	}
}

func TestDailyFortuneDeterministic(t *testing.T) {
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	a := DailyFortune(date)
	b := DailyFortune(date)
	if a.Star != b.Star || a.Luck != b.Luck || a.Pillar != b.Pillar {
		t.Fatalf("same date produced different readings: %+v vs %+v", a, b)
	}
}

func TestDailyFortuneStarBands(t *testing.T) {
	// Walk enough consecutive days to cover the full 12-star cycle and
	// verify every star maps to its band and activity tables.
	wantBands := map[string]LuckBand{
		"청룡": GreatLuck, "명당": GreatLuck, "금궤": GreatLuck, "천덕": GreatLuck, "옥당": GreatLuck,
		"사명": GoodLuck,
		"천형": GreatMisfort, "백호": GreatMisfort, "천뢰": GreatMisfort, "현무": GreatMisfort,
		"주작": Misfortune, "구진": Misfortune,
	}
	seen := map[string]bool{}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for offset := 0; offset < 12; offset++ {
		info := DailyFortune(start.AddDate(0, 0, offset))
		seen[info.Star] = true
		if want, ok := wantBands[info.Star]; !ok || info.Luck != want {
			t.Fatalf("star %q luck = %q, want %q", info.Star, info.Luck, want)
		}
		if len(info.Recommended) == 0 {
			t.Fatalf("star %q has no recommended activities", info.Star)
		}
		if len(info.Avoided) == 0 {
			t.Fatalf("star %q has no avoided activities", info.Star)
		}
		if info.Description == "" {
			t.Fatalf("star %q has no description", info.Star)
		}
	}
	if len(seen) != 12 {
		t.Fatalf("saw %d distinct stars over 12 days, want 12", len(seen))
	}
}

func TestDailyFortuneCycleAdvances(t *testing.T) {
	// Within one month the star index advances with the day branch.
	first := DailyFortune(time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC))
	second := DailyFortune(time.Date(2026, 5, 11, 0, 0, 0, 0, time.UTC))
	if first.Star == second.Star {
		t.Fatalf("consecutive days share star %q", first.Star)
	}
}
