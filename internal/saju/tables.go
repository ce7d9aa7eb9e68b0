package saju

// TenGod is one of the ten relational labels (십성) a stem takes on
// relative to the day master.
type TenGod string

const (
	Friend          TenGod = "比肩"
	RivalWealth     TenGod = "劫財"
	Gourmet         TenGod = "食神"
	HurtingOfficer  TenGod = "傷官"
	IndirectWealth  TenGod = "偏財"
	DirectWealth    TenGod = "正財"
	IndirectOfficer TenGod = "偏官"
	DirectOfficer   TenGod = "正官"
	IndirectSeal    TenGod = "偏印"
	DirectSeal      TenGod = "正印"

	// DayMasterMark fills the day-pillar slot, which has no relation to itself.
	DayMasterMark TenGod = "日干"
)

var tenGodKorean = map[TenGod]string{
	Friend:          "비견",
	RivalWealth:     "겁재",
	Gourmet:         "식신",
	HurtingOfficer:  "상관",
	IndirectWealth:  "편재",
	DirectWealth:    "정재",
	IndirectOfficer: "편관",
	DirectOfficer:   "정관",
	IndirectSeal:    "편인",
	DirectSeal:      "정인",
	DayMasterMark:   "일간",
}

func (g TenGod) Korean() string { return tenGodKorean[g] }

// tenGods is the fixed 10x10 table keyed by (day stem, target stem).
var tenGods = [10][10]TenGod{
	{Friend, RivalWealth, Gourmet, HurtingOfficer, IndirectWealth, DirectWealth, IndirectOfficer, DirectOfficer, IndirectSeal, DirectSeal},
	{RivalWealth, Friend, HurtingOfficer, Gourmet, DirectWealth, IndirectWealth, DirectOfficer, IndirectOfficer, DirectSeal, IndirectSeal},
	{IndirectSeal, DirectSeal, Friend, RivalWealth, Gourmet, HurtingOfficer, IndirectWealth, DirectWealth, IndirectOfficer, DirectOfficer},
	{DirectSeal, IndirectSeal, RivalWealth, Friend, HurtingOfficer, Gourmet, DirectWealth, IndirectWealth, DirectOfficer, IndirectOfficer},
	{IndirectOfficer, DirectOfficer, IndirectSeal, DirectSeal, Friend, RivalWealth, Gourmet, HurtingOfficer, IndirectWealth, DirectWealth},
	{DirectOfficer, IndirectOfficer, DirectSeal, IndirectSeal, RivalWealth, Friend, HurtingOfficer, Gourmet, DirectWealth, IndirectWealth},
	{IndirectWealth, DirectWealth, IndirectOfficer, DirectOfficer, IndirectSeal, DirectSeal, Friend, RivalWealth, Gourmet, HurtingOfficer},
	{DirectWealth, IndirectWealth, DirectOfficer, IndirectOfficer, DirectSeal, IndirectSeal, RivalWealth, Friend, HurtingOfficer, Gourmet},
	{Gourmet, HurtingOfficer, IndirectWealth, DirectWealth, IndirectOfficer, DirectOfficer, IndirectSeal, DirectSeal, Friend, RivalWealth},
	{HurtingOfficer, Gourmet, DirectWealth, IndirectWealth, DirectOfficer, IndirectOfficer, DirectSeal, IndirectSeal, RivalWealth, Friend},
}

// TenGodOf returns the relation of target to the day master.
func TenGodOf(dayMaster, target Stem) TenGod { return tenGods[dayMaster][target] }

// dominantHiddenStem maps each branch to the principal stem hidden in it
// (지장간 본기). Branch ten gods are read through this table.
var dominantHiddenStem = [12]Stem{
	9, // 子 -> 癸
	5, // 丑 -> 己
	0, // 寅 -> 甲
	1, // 卯 -> 乙
	4, // 辰 -> 戊
	2, // 巳 -> 丙
	3, // 午 -> 丁
	5, // 未 -> 己
	6, // 申 -> 庚
	7, // 酉 -> 辛
	4, // 戌 -> 戊
	8, // 亥 -> 壬
}

// DominantHiddenStem returns the principal hidden stem of a branch.
func DominantHiddenStem(b Branch) Stem { return dominantHiddenStem[b] }

// BranchTenGodOf returns the relation of a branch's dominant hidden stem
// to the day master.
func BranchTenGodOf(dayMaster Stem, b Branch) TenGod {
	return TenGodOf(dayMaster, DominantHiddenStem(b))
}

// Stage is one of the twelve life-cycle stages (십이운성).
type Stage string

const (
	StageBirth    Stage = "長生"
	StageBath     Stage = "沐浴"
	StageCap      Stage = "冠帶"
	StageOffice   Stage = "建祿"
	StagePeak     Stage = "帝旺"
	StageDecline  Stage = "衰"
	StageIllness  Stage = "病"
	StageDeath    Stage = "死"
	StageGrave    Stage = "墓"
	StageSevered  Stage = "絶"
	StageConceive Stage = "胎"
	StageNurture  Stage = "養"
)

var stageKorean = map[Stage]string{
	StageBirth:    "장생",
	StageBath:     "목욕",
	StageCap:      "관대",
	StageOffice:   "건록",
	StagePeak:     "제왕",
	StageDecline:  "쇠",
	StageIllness:  "병",
	StageDeath:    "사",
	StageGrave:    "묘",
	StageSevered:  "절",
	StageConceive: "태",
	StageNurture:  "양",
}

func (s Stage) Korean() string { return stageKorean[s] }

// twelveStages is keyed by (day stem, branch), branch order 子..亥.
var twelveStages = [10][12]Stage{
	{StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth},
	{StageBath, StageCap, StagePeak, StageOffice, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth},
	{StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered},
	{StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered},
	{StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered},
	{StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered},
	{StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness},
	{StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice, StagePeak, StageDecline, StageIllness},
	{StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice},
	{StagePeak, StageDecline, StageIllness, StageDeath, StageGrave, StageSevered, StageConceive, StageNurture, StageBirth, StageBath, StageCap, StageOffice},
}

// StageOf returns the vigor of the day master at a branch.
func StageOf(dayMaster Stem, b Branch) Stage { return twelveStages[dayMaster][b] }
