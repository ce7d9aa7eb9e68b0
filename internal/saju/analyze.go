package saju

import "math"

// PhaseBand is the qualitative band a phase's share of the chart falls in.
type PhaseBand string

const (
	BandDeficient PhaseBand = "부족"
	BandWeak      PhaseBand = "약함"
	BandBalanced  PhaseBand = "적정"
	BandDeveloped PhaseBand = "발달"
	BandExcessive PhaseBand = "과다"
)

// phaseBandOf applies the fixed percentage thresholds.
func phaseBandOf(percent float64) PhaseBand {
	switch {
	case percent < 10:
		return BandDeficient
	case percent < 15:
		return BandWeak
	case percent < 25:
		return BandBalanced
	case percent < 35:
		return BandDeveloped
	default:
		return BandExcessive
	}
}

// PhaseStat is one phase's tally across the eight stem/branch slots.
type PhaseStat struct {
	Count   int       `json:"count"`
	Percent float64   `json:"percent"`
	Band    PhaseBand `json:"band"`
}

// Distribution holds the per-phase tallies, indexed by Phase.
type Distribution [5]PhaseStat

// PhaseDistribution tallies the phases of all four stems and four branches.
// Counts always sum to 8.
func PhaseDistribution(c Chart) Distribution {
	var counts [5]int
	for _, p := range c.Pillars() {
		counts[p.Stem.Phase()]++
		counts[p.Branch.Phase()]++
	}
	var d Distribution
	for i, n := range counts {
		pct := math.Round(float64(n)/8*1000) / 10
		d[i] = PhaseStat{Count: n, Percent: pct, Band: phaseBandOf(pct)}
	}
	return d
}

// StrengthBand is one of the seven ordered day-strength bands.
type StrengthBand string

const (
	ExtremelyWeak   StrengthBand = "극약"
	VeryWeak        StrengthBand = "태약"
	Weak            StrengthBand = "신약"
	Moderate        StrengthBand = "중화"
	Strong          StrengthBand = "신강"
	VeryStrong      StrengthBand = "태강"
	ExtremelyStrong StrengthBand = "극왕"
)

// Strength classifies the day master from its own-phase share of the chart.
type Strength struct {
	Band     StrengthBand `json:"band"`
	Position int          `json:"position"`
}

// weakLeaning reports whether the band flips the yongsin mapping to the
// supporting side.
func (s Strength) weakLeaning() bool {
	switch s.Band {
	case ExtremelyWeak, VeryWeak, Weak:
		return true
	}
	return false
}

// DayStrength classifies via fixed thresholds on the day master's own-phase
// percentage. The thresholds and positions are contract constants.
func DayStrength(c Chart, d Distribution) Strength {
	pct := d[c.DayMaster().Phase()].Percent
	switch {
	case pct < 8:
		return Strength{Band: ExtremelyWeak, Position: 5}
	case pct < 12:
		return Strength{Band: VeryWeak, Position: 15}
	case pct < 18:
		return Strength{Band: Weak, Position: 30}
	case pct < 28:
		return Strength{Band: Moderate, Position: 50}
	case pct < 35:
		return Strength{Band: Strong, Position: 70}
	case pct < 42:
		return Strength{Band: VeryStrong, Position: 85}
	default:
		return Strength{Band: ExtremelyStrong, Position: 95}
	}
}

// Elements is the yongsin assignment: the phase to lean on, the phase that
// supports, and the phase to avoid.
type Elements struct {
	Favorable   Phase `json:"favorable"`
	Supportive  Phase `json:"supportive"`
	Unfavorable Phase `json:"unfavorable"`
}

// FavorableElements applies the generation/control cycles relative to the
// day master. Weak-leaning charts lean on the phase that generates the day
// master; strong-leaning charts drain into the phase it generates. The two
// sides are exact mirrors through the cycles.
func FavorableElements(dayMaster Stem, s Strength) Elements {
	own := dayMaster.Phase()
	if s.weakLeaning() {
		return Elements{
			Favorable:   own.GeneratedBy(),
			Supportive:  own,
			Unfavorable: own.ControlledBy(),
		}
	}
	return Elements{
		Favorable:   own.Generates(),
		Supportive:  own.Controls(),
		Unfavorable: own,
	}
}

// LuckPillar is a single ten-year period.
type LuckPillar struct {
	Age    int    `json:"age"`
	Year   int    `json:"year"`
	Pillar Pillar `json:"pillar"`
}

// LuckCycle is the ordered luck-pillar sequence for one chart.
type LuckCycle struct {
	StartAge int          `json:"start_age"`
	Forward  bool         `json:"forward"`
	Periods  []LuckPillar `json:"periods"`
}

const luckPillarCount = 7

// luckOnsetAge approximates the onset age from the birth day of month,
// standing in for the day count to the nearest solar term.
func luckOnsetAge(birthDay int) int {
	switch {
	case birthDay <= 10:
		return 2
	case birthDay <= 20:
		return 5
	default:
		return 8
	}
}

// LuckPillars generates the ten-year periods by stepping the month pillar.
// Yang-year males and yin-year females run forward, the others backward.
func LuckPillars(c Chart, gender Gender, birthYear, birthDay int) LuckCycle {
	forward := c.Year.Stem.Yang() == (gender == Male)
	startAge := luckOnsetAge(birthDay)

	periods := make([]LuckPillar, 0, luckPillarCount)
	year := birthYear + startAge
	for i := 0; i < luckPillarCount; i++ {
		step := i + 1
		if !forward {
			step = -step
		}
		periods = append(periods, LuckPillar{
			Age:  startAge + i*10,
			Year: year,
			Pillar: Pillar{
				Stem:   Stem(mod(int(c.Month.Stem)+step, 10)),
				Branch: Branch(mod(int(c.Month.Branch)+step, 12)),
			},
		})
		year += 10
	}

	return LuckCycle{StartAge: startAge, Forward: forward, Periods: periods}
}

// Reading is the full derived-metric layer over one chart.
type Reading struct {
	Chart     Chart  `json:"chart"`
	DayMaster Stem   `json:"day_master"`
	Zodiac    string `json:"zodiac"`

	// Relational labels per pillar, Year/Month/Day/Hour order. The day
	// stem slot carries DayMasterMark.
	StemGods   [4]TenGod `json:"stem_gods"`
	BranchGods [4]TenGod `json:"branch_gods"`
	Stages     [4]Stage  `json:"stages"`

	Phases       Distribution      `json:"phases"`
	Strength     Strength          `json:"strength"`
	Elements     Elements          `json:"elements"`
	Interactions InteractionReport `json:"interactions"`
	Stars        []Star            `json:"stars"`
	Luck         LuckCycle         `json:"luck"`
}

// Analyze computes every derived metric for a chart. Pure and safe for
// concurrent use.
func Analyze(c Chart, gender Gender, birthYear, birthDay int) *Reading {
	dm := c.DayMaster()

	var stemGods, branchGods [4]TenGod
	var stages [4]Stage
	for i, p := range c.Pillars() {
		if Position(i) == DayPillar {
			stemGods[i] = DayMasterMark
		} else {
			stemGods[i] = TenGodOf(dm, p.Stem)
		}
		branchGods[i] = BranchTenGodOf(dm, p.Branch)
		stages[i] = StageOf(dm, p.Branch)
	}

	dist := PhaseDistribution(c)
	strength := DayStrength(c, dist)

	return &Reading{
		Chart:        c,
		DayMaster:    dm,
		Zodiac:       ZodiacAnimal(birthYear),
		StemGods:     stemGods,
		BranchGods:   branchGods,
		Stages:       stages,
		Phases:       dist,
		Strength:     strength,
		Elements:     FavorableElements(dm, strength),
		Interactions: DetectInteractions(c),
		Stars:        DetectStars(c),
		Luck:         LuckPillars(c, gender, birthYear, birthDay),
	}
}
