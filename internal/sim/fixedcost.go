package sim

import (
	"fmt"

	"github.com/talgya/ambition/internal/masterdata"
)

// FixedCost is the recurring monthly obligation: rent, tax withholding,
// insurance, equipment maintenance, and food. The total is always derived,
// never stored. Owned exclusively by the Budget.
type FixedCost struct {
	rent        int
	tax         int
	insurance   int
	maintenance int
	foodCost    int

	settings *masterdata.Settings
}

// NewFixedCost creates an empty ledger backed by the given settings table.
func NewFixedCost(settings *masterdata.Settings) *FixedCost {
	return &FixedCost{settings: settings}
}

func (f *FixedCost) Rent() int        { return f.rent }
func (f *FixedCost) Tax() int         { return f.tax }
func (f *FixedCost) Insurance() int   { return f.insurance }
func (f *FixedCost) Maintenance() int { return f.maintenance }
func (f *FixedCost) FoodCost() int    { return f.foodCost }

// TotalCost is the sum of all five components.
func (f *FixedCost) TotalCost() int {
	return f.rent + f.tax + f.insurance + f.maintenance + f.foodCost
}

// UpdateRent sets the monthly rent, e.g. after a relocation.
func (f *FixedCost) UpdateRent(newRent int) {
	f.rent = maxInt(0, newRent)
}

// UpdateTax recomputes the monthly tax withholding from the annual salary:
// Tax_Rate of the salary, truncated, spread over twelve months. Called on
// new game and at contract renewal.
func (f *FixedCost) UpdateTax(annualSalary int) {
	rate := f.settings.GetFloat(masterdata.KeyTaxRate, 0.3)
	annual := int(float64(annualSalary) * rate)
	f.tax = maxInt(0, annual/monthsInYear)
}

// UpdateInsurance sets the monthly insurance premium.
func (f *FixedCost) UpdateInsurance(planCost int) {
	f.insurance = maxInt(0, planCost)
}

// RecalculateMaintenance rederives upkeep from the environment's equipment
// levels. Only the gym carries a per-level cost today; further upgrade types
// slot in here.
func (f *FixedCost) RecalculateMaintenance(env *Environment) {
	perGymLevel := f.settings.GetInt(masterdata.KeyCostMaintGym, 5000)
	f.maintenance = maxInt(0, env.GymLevel()*perGymLevel)
}

// RecalculateFoodCost looks up the monthly food cost for a meal rank via the
// Cost_Food_Lv{rank} setting.
func (f *FixedCost) RecalculateFoodCost(mealRank int) {
	key := fmt.Sprintf("%s%d", masterdata.KeyCostFoodLv, mealRank)
	f.foodCost = maxInt(0, f.settings.GetInt(key, 10000))
}

// CalculateIncomeTax returns the annual income tax due in March.
func (f *FixedCost) CalculateIncomeTax(annualSalary int) int {
	rate := f.settings.GetFloat(masterdata.KeyTaxRate, 0.3)
	return maxInt(0, int(float64(annualSalary)*rate))
}

// CalculateFixedAssetTax returns the fixed-asset tax due in May.
func (f *FixedCost) CalculateFixedAssetTax() int {
	return maxInt(0, f.settings.GetInt(masterdata.KeyTaxFixedAsset, 100000))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
