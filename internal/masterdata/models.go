// Package masterdata loads the game's immutable reference tables from a
// single YAML document: player templates, wife templates, housing, food
// tiers, wife actions, random events, and keyed numeric settings.
package masterdata

// PlayerStats is the template a new husband is created from.
type PlayerStats struct {
	ID             int    `yaml:"id"`
	Name           string `yaml:"name"`
	Position       string `yaml:"position"`
	Age            int    `yaml:"age"`
	Health         int    `yaml:"health"`
	Mental         int    `yaml:"mental"`
	Condition      int    `yaml:"condition"`
	Love           int    `yaml:"love"`
	Ability        int    `yaml:"ability"`
	TeamEvaluation int    `yaml:"team_evaluation"`
	Salary         int    `yaml:"salary"`
}

// WifeStats is the template a new wife is created from.
type WifeStats struct {
	ID             int    `yaml:"id"`
	Name           string `yaml:"name"`
	InitialHealth  int    `yaml:"initial_health"`
	InitialCooking int    `yaml:"initial_cooking"`
	InitialCare    int    `yaml:"initial_care"`
	InitialPR      int    `yaml:"initial_pr"`
	InitialCoach   int    `yaml:"initial_coach"`
}

// Housing is a place the household can live in.
type Housing struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	MonthlyRent int    `yaml:"monthly_rent"`
}

// FoodTier describes one meal rank for display purposes. The monthly cost
// itself is resolved through the Cost_Food_Lv{rank} setting.
type FoodTier struct {
	Rank int    `yaml:"rank"`
	Name string `yaml:"name"`
}

// GameEvent is a random monthly event. Selection is left to the pipeline's
// event picker; the table only supplies candidates.
type GameEvent struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// MainCategory groups wife actions into top-level menus.
type MainCategory uint8

const (
	CategoryNone MainCategory = iota
	CategoryCare
	CategorySupport
	CategoryRest
	CategoryDiscipline
	CategorySNS
	CategoryTalk
)

// ParseMainCategory maps a table tag to its category. Unknown tags map to
// CategoryNone rather than failing the load.
func ParseMainCategory(tag string) MainCategory {
	switch tag {
	case "CARE":
		return CategoryCare
	case "SUPPORT":
		return CategorySupport
	case "REST":
		return CategoryRest
	case "DISCIPLINE":
		return CategoryDiscipline
	case "SNS":
		return CategorySNS
	case "TALK":
		return CategoryTalk
	}
	return CategoryNone
}

// String returns the table tag for the category.
func (c MainCategory) String() string {
	switch c {
	case CategoryCare:
		return "CARE"
	case CategorySupport:
		return "SUPPORT"
	case CategoryRest:
		return "REST"
	case CategoryDiscipline:
		return "DISCIPLINE"
	case CategorySNS:
		return "SNS"
	case CategoryTalk:
		return "TALK"
	}
	return "NONE"
}

// Sub-category tags with pipeline-special handling. Anything else is a plain
// stat-delta action.
const (
	SubFullRest   = "FULL_REST"
	SubUpgradeGym = "UPGRADE_GYM"
	SubUpgradeBed = "UPGRADE_BED"
	SubRelocate   = "RELOCATE"
	SubSponsor    = "SPONSOR_REQUEST"
)

// Action is a player-selectable activity: a cost plus a set of stat deltas.
// Instances are immutable once loaded.
type Action struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Tag         string `yaml:"tag"`
	SubCategory string `yaml:"sub_category"`
	Description string `yaml:"description"`

	CostMoney      int `yaml:"cost_money"`
	CostWifeHealth int `yaml:"cost_wife_health"`

	// Effects on the husband and on public reputation.
	DeltaHP             int `yaml:"delta_hp"`
	DeltaMP             int `yaml:"delta_mp"`
	DeltaCondition      int `yaml:"delta_cond"`
	DeltaLove           int `yaml:"delta_love"`
	DeltaPublicEye      int `yaml:"delta_public_eye"`
	DeltaTeamEvaluation int `yaml:"delta_team_evaluation"`
	DeltaAbility        int `yaml:"delta_ability"`

	// Growth modifiers applied by the skill-update phase.
	GrowthAdd float64 `yaml:"growth_add"`
	GrowthMul float64 `yaml:"growth_mul"`

	// Relocation target, only meaningful for SubRelocate actions.
	TargetHouseID int `yaml:"target_house_id"`
}

// Category returns the parsed main category of the action's tag.
func (a *Action) Category() MainCategory {
	return ParseMainCategory(a.Tag)
}

// IsRest reports whether the action is a rest action. Rest actions bypass
// the wife-health requirement check because they are the mechanism for
// restoring it.
func (a *Action) IsRest() bool {
	return a.Category() == CategoryRest
}
