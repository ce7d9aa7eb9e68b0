package saju

import (
	"fmt"
	"strings"
)

// InteractionKind labels one category of pillar interaction.
type InteractionKind string

const (
	StemCombination InteractionKind = "천간합"
	SixHarmony      InteractionKind = "육합"
	ThreeHarmony    InteractionKind = "삼합"
	Clash           InteractionKind = "충"
	Punishment      InteractionKind = "형"
	Harm            InteractionKind = "해"
)

// Interaction is one detected relationship between pillar slots. Records
// are accumulated into a report and never mutated.
type Interaction struct {
	Kind      InteractionKind `json:"kind"`
	Positions []Position      `json:"positions"`
	Members   []string        `json:"members"`
	Result    *Phase          `json:"result,omitempty"`
	Name      string          `json:"name,omitempty"`
	Complete  bool            `json:"complete,omitempty"`
	Note      string          `json:"note"`
}

// InteractionReport collects all records for one chart plus a summary line.
type InteractionReport struct {
	Records []Interaction `json:"records"`
	Summary string        `json:"summary"`
}

// ByKind filters the records of one category.
func (r InteractionReport) ByKind(kind InteractionKind) []Interaction {
	var out []Interaction
	for _, rec := range r.Records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// stemCombinations: the five fixed pairs, each resolving to a phase
// (갑기합토, 을경합금, 병신합수, 정임합목, 무계합화).
var stemCombinations = []struct {
	a, b   Stem
	result Phase
}{
	{0, 5, Earth},
	{1, 6, Metal},
	{2, 7, Water},
	{3, 8, Wood},
	{4, 9, Fire},
}

// sixHarmonies: 子丑, 寅亥, 卯戌, 辰酉, 巳申, 午未.
var sixHarmonies = []struct {
	a, b   Branch
	result Phase
}{
	{0, 1, Earth},
	{2, 11, Wood},
	{3, 10, Fire},
	{4, 9, Metal},
	{5, 8, Water},
	{6, 7, Fire},
}

// threeHarmonies: the four triads, partial 2-of-3 matches count.
var threeHarmonies = []struct {
	members [3]Branch
	result  Phase
}{
	{[3]Branch{8, 0, 4}, Water},  // 申子辰
	{[3]Branch{2, 6, 10}, Fire},  // 寅午戌
	{[3]Branch{5, 9, 1}, Metal},  // 巳酉丑
	{[3]Branch{11, 3, 7}, Wood},  // 亥卯未
}

// clashes: 子午, 丑未, 寅申, 卯酉, 辰戌, 巳亥.
var clashes = [][2]Branch{{0, 6}, {1, 7}, {2, 8}, {3, 9}, {4, 10}, {5, 11}}

// punishments: the three fixed groups, two or more members present.
var punishments = []struct {
	members []Branch
	name    string
}{
	{[]Branch{2, 5, 8}, "무은지형"},  // 寅巳申
	{[]Branch{1, 7, 10}, "세형"},   // 丑未戌
	{[]Branch{0, 3}, "무례지형"},     // 子卯
}

// harms: 子未, 丑午, 寅巳, 卯辰, 申亥, 酉戌.
var harms = [][2]Branch{{0, 7}, {1, 6}, {2, 5}, {3, 4}, {8, 11}, {9, 10}}

// DetectInteractions applies the fixed combination, harmony, clash,
// punishment and harm tables pairwise (triad-wise for three-harmonies)
// over the chart's stems and branches.
func DetectInteractions(c Chart) InteractionReport {
	pillars := c.Pillars()
	var records []Interaction

	// Stem combinations, pairwise over the four stems.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			a, b := pillars[i].Stem, pillars[j].Stem
			for _, combo := range stemCombinations {
				if (a == combo.a && b == combo.b) || (a == combo.b && b == combo.a) {
					result := combo.result
					records = append(records, Interaction{
						Kind:      StemCombination,
						Positions: []Position{Position(i), Position(j)},
						Members:   []string{a.Hanja(), b.Hanja()},
						Result:    &result,
						Note: fmt.Sprintf("%s(%s)과 %s(%s)이 합하여 %s으로 화합니다.",
							Position(i).StemKorean(), a.Hanja(), Position(j).StemKorean(), b.Hanja(), result.Korean()),
					})
				}
			}
		}
	}

	// Six harmonies, pairwise over the four branches.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			a, b := pillars[i].Branch, pillars[j].Branch
			for _, h := range sixHarmonies {
				if (a == h.a && b == h.b) || (a == h.b && b == h.a) {
					result := h.result
					records = append(records, Interaction{
						Kind:      SixHarmony,
						Positions: []Position{Position(i), Position(j)},
						Members:   []string{a.Hanja(), b.Hanja()},
						Result:    &result,
						Note: fmt.Sprintf("%s(%s)와 %s(%s)이 육합을 이룹니다.",
							Position(i).BranchKorean(), a.Hanja(), Position(j).BranchKorean(), b.Hanja()),
					})
				}
			}
		}
	}

	// Three harmonies: every triad with at least two member branches present.
	for _, tri := range threeHarmonies {
		var positions []Position
		var members []string
		for i, p := range pillars {
			for _, m := range tri.members {
				if p.Branch == m {
					positions = append(positions, Position(i))
					members = append(members, p.Branch.Hanja())
					break
				}
			}
		}
		if len(positions) >= 2 {
			result := tri.result
			names := make([]string, len(positions))
			for i, pos := range positions {
				names[i] = pos.BranchKorean()
			}
			note := fmt.Sprintf("%s이 %s 삼합의 일부를 이룹니다.", strings.Join(names, ", "), result.Korean())
			if len(positions) == 3 {
				note = fmt.Sprintf("%s이 %s 삼합을 이룹니다.", strings.Join(names, ", "), result.Korean())
			}
			records = append(records, Interaction{
				Kind:      ThreeHarmony,
				Positions: positions,
				Members:   members,
				Result:    &result,
				Complete:  len(positions) == 3,
				Note:      note,
			})
		}
	}

	// Clashes, pairwise.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			a, b := pillars[i].Branch, pillars[j].Branch
			for _, cl := range clashes {
				if (a == cl[0] && b == cl[1]) || (a == cl[1] && b == cl[0]) {
					records = append(records, Interaction{
						Kind:      Clash,
						Positions: []Position{Position(i), Position(j)},
						Members:   []string{a.Hanja(), b.Hanja()},
						Note: fmt.Sprintf("%s(%s)와 %s(%s)이 충을 이룹니다. 변동과 충돌이 있을 수 있습니다.",
							Position(i).BranchKorean(), a.Hanja(), Position(j).BranchKorean(), b.Hanja()),
					})
				}
			}
		}
	}

	// Punishments: groups with at least two member branches present.
	for _, grp := range punishments {
		var positions []Position
		var members []string
		for i, p := range pillars {
			for _, m := range grp.members {
				if p.Branch == m {
					positions = append(positions, Position(i))
					members = append(members, p.Branch.Hanja())
					break
				}
			}
		}
		if len(positions) >= 2 {
			names := make([]string, len(positions))
			for i, pos := range positions {
				names[i] = pos.BranchKorean()
			}
			records = append(records, Interaction{
				Kind:      Punishment,
				Positions: positions,
				Members:   members,
				Name:      grp.name,
				Note:      fmt.Sprintf("%s이 %s을 이룹니다.", strings.Join(names, ", "), grp.name),
			})
		}
	}

	// Harms, pairwise.
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			a, b := pillars[i].Branch, pillars[j].Branch
			for _, h := range harms {
				if (a == h[0] && b == h[1]) || (a == h[1] && b == h[0]) {
					records = append(records, Interaction{
						Kind:      Harm,
						Positions: []Position{Position(i), Position(j)},
						Members:   []string{a.Hanja(), b.Hanja()},
						Note: fmt.Sprintf("%s(%s)와 %s(%s)이 해를 이룹니다.",
							Position(i).BranchKorean(), a.Hanja(), Position(j).BranchKorean(), b.Hanja()),
					})
				}
			}
		}
	}

	return InteractionReport{Records: records, Summary: summarize(records)}
}

var summaryOrder = []InteractionKind{StemCombination, SixHarmony, ThreeHarmony, Clash, Punishment, Harm}

func summarize(records []Interaction) string {
	counts := map[InteractionKind]int{}
	for _, r := range records {
		counts[r.Kind]++
	}
	var parts []string
	for _, kind := range summaryOrder {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d개", kind, n))
		}
	}
	if len(parts) == 0 {
		return "특별한 합충형파해가 없습니다."
	}
	return strings.Join(parts, ", ")
}
