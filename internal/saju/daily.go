package saju

import "time"

// LuckBand grades a day or relation from very auspicious to very inauspicious.
// The full conventional seven-step scale is declared; the daily star cycle
// itself only ever grades into 대길, 중길, 중흉 and 대흉.
type LuckBand string

const (
	GreatLuck    LuckBand = "대길"
	GoodLuck     LuckBand = "중길"
	SmallLuck    LuckBand = "소길"
	EvenLuck     LuckBand = "평"
	SmallMisfort LuckBand = "소흉"
	Misfortune   LuckBand = "중흉"
	GreatMisfort LuckBand = "대흉"
)

// auspiciousStars is the fixed 12-member daily star cycle.
var auspiciousStars = [12]string{
	"청룡", "명당", "천형", "주작", "금궤", "천덕",
	"백호", "옥당", "천뢰", "현무", "사명", "구진",
}

var starLuckBand = map[string]LuckBand{
	"청룡": GreatLuck, "명당": GreatLuck, "금궤": GreatLuck, "천덕": GreatLuck, "옥당": GreatLuck,
	"사명": GoodLuck,
	"천형": GreatMisfort, "백호": GreatMisfort, "천뢰": GreatMisfort, "현무": GreatMisfort,
	"주작": Misfortune, "구진": Misfortune,
}

var starRecommended = map[string][]string{
	"청룡": {"이사", "입주", "계약", "거래", "여행", "상담"},
	"명당": {"이사", "입주", "계약", "거래", "여행", "상담"},
	"금궤": {"재물관리", "투자", "저축", "구매"},
	"천덕": {"재물관리", "투자", "저축", "구매"},
	"옥당": {"시험", "면접", "발표", "학업"},
	"사명": {"대인관계", "모임", "상담"},
}

var starAvoided = map[string][]string{
	"천형": {"수술", "소송", "분쟁", "이사", "개업"},
	"백호": {"수술", "소송", "분쟁", "이사", "개업"},
	"주작": {"계약", "약속", "중요한 결정"},
	"천뢰": {"여행", "이동", "새로운 시작"},
	"현무": {"여행", "이동", "새로운 시작"},
	"구진": {"재물 거래", "투자", "대출"},
}

var starDescription = map[string]string{
	"청룡": "청룡의 기운이 함께하는 날입니다. 만사형통하며 하는 일마다 길한 날입니다.",
	"명당": "명당의 밝은 기운이 가득한 날입니다. 좋은 소식과 기회가 찾아올 수 있습니다.",
	"천형": "천형살이 있는 날로 분쟁이나 구설수를 조심해야 합니다.",
	"주작": "주작의 날로 말조심이 필요하며, 중요한 결정은 미루는 것이 좋습니다.",
	"금궤": "금궤의 재물운이 함께하는 날입니다. 재물과 관련된 일이 길합니다.",
	"천덕": "천덕의 복이 깃든 날입니다. 덕을 쌓는 일에 좋은 날입니다.",
	"백호": "백호살이 있는 날로 급한 일이나 위험한 일은 피하는 것이 좋습니다.",
	"옥당": "옥당의 학문 기운이 있는 날입니다. 공부나 시험에 좋은 날입니다.",
	"천뢰": "천뢰의 기운이 있어 조심스러운 행동이 필요한 날입니다.",
	"현무": "현무의 날로 은밀한 일은 좋으나 큰 일은 삼가는 것이 좋습니다.",
	"사명": "사명의 날로 사람을 만나거나 인연을 맺기에 좋은 날입니다.",
	"구진": "구진의 날로 재물 관리에 신중을 기해야 합니다.",
}

var defaultRecommended = []string{"일상 업무", "휴식"}
var defaultAvoided = []string{"무리한 일"}

// DailyInfo is the auspicious-day classification of one calendar date.
type DailyInfo struct {
	Date        time.Time `json:"date"`
	Pillar      Pillar    `json:"pillar"`
	Phase       Phase     `json:"phase"`
	Star        string    `json:"star"`
	Luck        LuckBand  `json:"luck"`
	Recommended []string  `json:"recommended"`
	Avoided     []string  `json:"avoided"`
	Description string    `json:"description"`
}

// DailyFortune classifies one date: day pillar, its phase, the 12-star
// cycle member (shifted by calendar month), and the per-star activity
// tables. Stateless and deterministic.
func DailyFortune(date time.Time) DailyInfo {
	year, month, day := date.Year(), int(date.Month()), date.Day()
	idx := DayCycleIndex(year, month, day)
	pillar := Pillar{Stem: Stem(idx % 10), Branch: Branch(idx % 12)}

	star := auspiciousStars[mod(int(pillar.Branch)+(month-1), 12)]

	luck, ok := starLuckBand[star]
	if !ok {
		luck = EvenLuck
	}
	recommended := starRecommended[star]
	if len(recommended) == 0 {
		recommended = defaultRecommended
	}
	avoided := starAvoided[star]
	if len(avoided) == 0 {
		avoided = defaultAvoided
	}
	description, ok := starDescription[star]
	if !ok {
		description = "평범한 날입니다."
	}

	return DailyInfo{
		Date:        time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC),
		Pillar:      pillar,
		Phase:       pillar.Stem.Phase(),
		Star:        star,
		Luck:        luck,
		Recommended: recommended,
		Avoided:     avoided,
		Description: description,
	}
}
