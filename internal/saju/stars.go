package saju

// StarClass groups auxiliary stars by influence.
type StarClass string

const (
	Beneficial StarClass = "길신"
	Neutral    StarClass = "중립"
	Harmful    StarClass = "흉신"
)

// Star is one detected auxiliary star (신살). Each rule fires at most once.
type Star struct {
	Name   string    `json:"name"`
	Class  StarClass `json:"class"`
	Branch Branch    `json:"branch"`
	Note   string    `json:"note"`
}

// nobleHelper (천을귀인): keyed by day stem, present if either target
// branch appears anywhere in the chart.
var nobleHelper = map[Stem][2]Branch{
	0: {1, 7},  // 甲 -> 丑未
	4: {1, 7},  // 戊 -> 丑未
	1: {0, 8},  // 乙 -> 子申
	5: {0, 8},  // 己 -> 子申
	2: {11, 9}, // 丙 -> 亥酉
	3: {11, 9}, // 丁 -> 亥酉
	6: {1, 7},  // 庚 -> 丑未
	7: {2, 6},  // 辛 -> 寅午
	8: {3, 5},  // 壬 -> 卯巳
	9: {3, 5},  // 癸 -> 卯巳
}

// postHorse (역마살): keyed by year branch.
var postHorse = map[Branch]Branch{
	2: 8, 6: 2, 10: 8,
	8: 2, 0: 2, 4: 8,
	5: 11, 9: 5, 1: 11,
	11: 5, 3: 5, 7: 11,
}

// peachBlossom (도화살): keyed by year branch.
var peachBlossom = map[Branch]Branch{
	2: 3, 6: 3, 10: 3,
	8: 9, 0: 9, 4: 9,
	5: 6, 9: 6, 1: 6,
	11: 0, 3: 0, 7: 0,
}

// canopy (화개살): keyed by year branch.
var canopy = map[Branch]Branch{
	2: 10, 6: 10, 10: 10,
	8: 4, 0: 4, 4: 4,
	5: 1, 9: 1, 1: 1,
	11: 7, 3: 7, 7: 7,
}

// blade (양인살): keyed by day stem.
var blade = map[Stem]Branch{
	0: 3, 1: 2,
	2: 6, 3: 5,
	4: 6, 5: 5,
	6: 9, 7: 8,
	8: 0, 9: 11,
}

// kuigangPillars (괴강살): the four day pillars carrying it.
var kuigangPillars = []Pillar{
	{Stem: 6, Branch: 4},  // 庚辰
	{Stem: 6, Branch: 10}, // 庚戌
	{Stem: 8, Branch: 4},  // 壬辰
	{Stem: 4, Branch: 10}, // 戊戌
}

// DetectStars runs the independent presence rules over a chart. Each rule
// stops at its first matching branch.
func DetectStars(c Chart) []Star {
	var stars []Star
	branches := [4]Branch{c.Year.Branch, c.Month.Branch, c.Day.Branch, c.Hour.Branch}
	dayStem := c.Day.Stem
	yearBranch := c.Year.Branch

	if targets, ok := nobleHelper[dayStem]; ok {
		for _, b := range branches {
			if b == targets[0] || b == targets[1] {
				stars = append(stars, Star{
					Name: "천을귀인", Class: Beneficial, Branch: b,
					Note: "귀인의 도움을 받는 길신입니다. 어려움에서 도움을 받을 수 있습니다.",
				})
				break
			}
		}
	}

	if target, ok := postHorse[yearBranch]; ok {
		for _, b := range branches {
			if b == target {
				stars = append(stars, Star{
					Name: "역마살", Class: Neutral, Branch: b,
					Note: "이동과 변화가 많은 삶입니다. 여행, 이사, 직장 이동이 잦을 수 있습니다.",
				})
				break
			}
		}
	}

	if target, ok := peachBlossom[yearBranch]; ok {
		for _, b := range branches {
			if b == target {
				stars = append(stars, Star{
					Name: "도화살", Class: Neutral, Branch: b,
					Note: "인기가 많고 이성운이 좋습니다. 예술적 재능이 있을 수 있습니다.",
				})
				break
			}
		}
	}

	if target, ok := canopy[yearBranch]; ok {
		for _, b := range branches {
			if b == target {
				stars = append(stars, Star{
					Name: "화개살", Class: Neutral, Branch: b,
					Note: "예술적, 종교적 재능이 있습니다. 학문과 연구에도 뛰어날 수 있습니다.",
				})
				break
			}
		}
	}

	if target, ok := blade[dayStem]; ok {
		for _, b := range branches {
			if b == target {
				stars = append(stars, Star{
					Name: "양인살", Class: Harmful, Branch: b,
					Note: "성격이 강하고 극단적일 수 있습니다. 리더십이 있으나 충동적일 수 있습니다.",
				})
				break
			}
		}
	}

	// Void branches (공망): the two branches left uncovered by the ten
	// stems, anchored on the year stem.
	void1 := Branch(mod(int(c.Year.Stem)+10, 12))
	void2 := Branch(mod(int(c.Year.Stem)+11, 12))
	for _, b := range branches {
		if b == void1 || b == void2 {
			stars = append(stars, Star{
				Name: "공망", Class: Harmful, Branch: b,
				Note: "허무함이나 공허함을 느낄 수 있습니다. 일이 뜻대로 안 될 때가 있습니다.",
			})
			break
		}
	}

	for _, kp := range kuigangPillars {
		if c.Day == kp {
			stars = append(stars, Star{
				Name: "괴강살", Class: Neutral, Branch: c.Day.Branch,
				Note: "특별한 성격과 능력을 가졌습니다. 강한 카리스마가 있으나 고집이 셀 수 있습니다.",
			})
			break
		}
	}

	return stars
}
