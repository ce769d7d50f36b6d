package masterdata

import "log/slog"

// Setting keys used by the simulation core.
const (
	KeyTaxRate       = "Tax_Rate"
	KeyTaxFixedAsset = "Tax_Fixed_Asset"
	KeyCostMaintGym  = "Cost_Maint_Gym"
	KeyCostFoodLv    = "Cost_Food_Lv" // prefix, suffixed with the meal rank
	KeyInitialMoney  = "Initial_Money"
	KeyStartYear     = "Start_Year"
	KeyStartMonth    = "Start_Month"
	KeySponsorPRMin  = "Sponsor_PR_Threshold"
	KeySponsorReward = "Sponsor_Reward"
)

// Settings resolves keyed numeric tunables. Missing keys fall back to the
// caller-supplied default with a warning; lookups never fail.
type Settings struct {
	values map[string]float64
}

// NewSettings builds a Settings table from raw key/value pairs.
func NewSettings(values map[string]float64) *Settings {
	if values == nil {
		values = make(map[string]float64)
	}
	return &Settings{values: values}
}

// GetFloat returns the value for key, or def if absent.
func (s *Settings) GetFloat(key string, def float64) float64 {
	if v, ok := s.values[key]; ok {
		return v
	}
	slog.Warn("setting key missing, using default", "key", key, "default", def)
	return def
}

// GetInt returns the value for key truncated to int, or def if absent.
func (s *Settings) GetInt(key string, def int) int {
	return int(s.GetFloat(key, float64(def)))
}
