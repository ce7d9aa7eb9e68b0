package saju

import "fmt"

// RelationKind classifies a pairwise phase or branch relation.
type RelationKind string

const (
	SamePhase      RelationKind = "비화"
	GeneratesOther RelationKind = "상생"
	ControlsOther  RelationKind = "상극"
	NeutralPhase   RelationKind = "중립"

	BranchHarmonyRel RelationKind = "육합"
	BranchClashRel   RelationKind = "충"
	BranchSameRel    RelationKind = "지지동일"
	BranchPlainRel   RelationKind = "일반"
)

// Relation is one scored pairwise classification.
type Relation struct {
	Kind  RelationKind `json:"kind"`
	Score int          `json:"score"`
	Note  string       `json:"note"`
}

// CompatibilityLabel is the qualitative verdict band.
type CompatibilityLabel string

const (
	MatchDestined   CompatibilityLabel = "천생연분"
	MatchExcellent  CompatibilityLabel = "매우 좋음"
	MatchGood       CompatibilityLabel = "좋음"
	MatchFair       CompatibilityLabel = "보통"
	MatchEffortful  CompatibilityLabel = "노력 필요"
	MatchDemanding  CompatibilityLabel = "많은 이해 필요"
)

// CompatibilityResult scores two charts against each other. The relation
// lookups are symmetric, so swapping the parties never changes the score.
type CompatibilityResult struct {
	DayPillarA      Pillar             `json:"day_pillar_a"`
	DayPillarB      Pillar             `json:"day_pillar_b"`
	PhaseA          Phase              `json:"phase_a"`
	PhaseB          Phase              `json:"phase_b"`
	PhaseRelation   Relation           `json:"phase_relation"`
	BranchRelation  Relation           `json:"branch_relation"`
	StemCombination bool               `json:"stem_combination"`
	Score           int                `json:"score"`
	Label           CompatibilityLabel `json:"label"`
}

// Fixed base scores per relation class.
const (
	phaseScoreSame      = 70
	phaseScoreGenerates = 90
	phaseScoreControls  = 50
	phaseScoreNeutral   = 65

	branchScoreHarmony = 95
	branchScoreClash   = 45
	branchScoreSame    = 75
	branchScorePlain   = 70

	stemScoreBase        = 70
	stemCombinationBonus = 10
)

func phaseRelation(a, b Phase) Relation {
	if a == b {
		return Relation{
			Kind:  SamePhase,
			Score: phaseScoreSame,
			Note:  fmt.Sprintf("%s와 %s는 같은 오행으로 서로 비슷한 성향을 가집니다.", a.Hanja(), b.Hanja()),
		}
	}
	if a.Generates() == b || b.Generates() == a {
		return Relation{
			Kind:  GeneratesOther,
			Score: phaseScoreGenerates,
			Note:  fmt.Sprintf("%s와 %s는 상생 관계입니다. 한 분이 다른 분을 도와주는 좋은 인연입니다.", a.Hanja(), b.Hanja()),
		}
	}
	if a.Controls() == b || b.Controls() == a {
		return Relation{
			Kind:  ControlsOther,
			Score: phaseScoreControls,
			Note:  fmt.Sprintf("%s와 %s는 상극 관계입니다. 서로 다른 성향이지만 배려하면 좋은 관계가 됩니다.", a.Hanja(), b.Hanja()),
		}
	}
	return Relation{
		Kind:  NeutralPhase,
		Score: phaseScoreNeutral,
		Note:  fmt.Sprintf("%s와 %s는 직접적인 상생상극 관계는 아니지만 조화를 이룰 수 있습니다.", a.Hanja(), b.Hanja()),
	}
}

func branchRelation(a, b Branch) Relation {
	// Harmony and clash pairs are always distinct branches, so the
	// identical case never overlaps them.
	if a == b {
		return Relation{
			Kind:  BranchSameRel,
			Score: branchScoreSame,
			Note:  "지지가 같아 비슷한 생활 패턴과 가치관을 가집니다.",
		}
	}
	for _, h := range sixHarmonies {
		if (a == h.a && b == h.b) || (a == h.b && b == h.a) {
			return Relation{
				Kind:  BranchHarmonyRel,
				Score: branchScoreHarmony,
				Note:  "지지가 육합을 이루어 서로를 잘 돕는 매우 좋은 관계입니다.",
			}
		}
	}
	for _, cl := range clashes {
		if (a == cl[0] && b == cl[1]) || (a == cl[1] && b == cl[0]) {
			return Relation{
				Kind:  BranchClashRel,
				Score: branchScoreClash,
				Note:  "지지가 충을 이룹니다. 서로 다른 성향이 부딪힐 수 있으나 이해하면 보완관계가 됩니다.",
			}
		}
	}
	return Relation{
		Kind:  BranchPlainRel,
		Score: branchScorePlain,
		Note:  "지지가 특별한 관계를 이루지는 않습니다.",
	}
}

func stemsCombine(a, b Stem) bool {
	for _, combo := range stemCombinations {
		if (a == combo.a && b == combo.b) || (a == combo.b && b == combo.a) {
			return true
		}
	}
	return false
}

func compatibilityLabel(score int) CompatibilityLabel {
	switch {
	case score >= 90:
		return MatchDestined
	case score >= 80:
		return MatchExcellent
	case score >= 70:
		return MatchGood
	case score >= 60:
		return MatchFair
	case score >= 50:
		return MatchEffortful
	default:
		return MatchDemanding
	}
}

// Compatibility scores two charts from their day pillars only: phase
// relation at 40%, branch relation at 40%, a fixed stem base at 20%, plus
// a combination bonus, clamped to [0, 100].
func Compatibility(a, b Chart) CompatibilityResult {
	phaseRel := phaseRelation(a.Day.Stem.Phase(), b.Day.Stem.Phase())
	branchRel := branchRelation(a.Day.Branch, b.Day.Branch)
	combined := stemsCombine(a.Day.Stem, b.Day.Stem)

	score := int(float64(phaseRel.Score)*0.4 + float64(branchRel.Score)*0.4 + stemScoreBase*0.2)
	if combined {
		score += stemCombinationBonus
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return CompatibilityResult{
		DayPillarA:      a.Day,
		DayPillarB:      b.Day,
		PhaseA:          a.Day.Stem.Phase(),
		PhaseB:          b.Day.Stem.Phase(),
		PhaseRelation:   phaseRel,
		BranchRelation:  branchRel,
		StemCombination: combined,
		Score:           score,
		Label:           compatibilityLabel(score),
	}
}
