package sim

import (
	"testing"

	"github.com/talgya/ambition/internal/masterdata"
)

func testSettings() *masterdata.Settings {
	return masterdata.NewSettings(map[string]float64{
		"Tax_Rate":        0.3,
		"Tax_Fixed_Asset": 100000,
		"Cost_Maint_Gym":  5000,
		"Cost_Food_Lv0":   10000,
		"Cost_Food_Lv1":   20000,
		"Cost_Food_Lv2":   35000,
		"Cost_Food_Lv3":   60000,
	})
}

func TestTotalCostIsDerivedSum(t *testing.T) {
	f := NewFixedCost(testSettings())
	f.UpdateRent(80000)
	f.UpdateInsurance(12000)
	f.RecalculateFoodCost(1)

	want := 80000 + 12000 + 20000
	if f.TotalCost() != want {
		t.Fatalf("expected total %d, got %d", want, f.TotalCost())
	}

	f.UpdateRent(60000)
	want = 60000 + 12000 + 20000
	if f.TotalCost() != want {
		t.Fatalf("total must track component updates, expected %d, got %d", want, f.TotalCost())
	}
}

func TestUpdateTaxSpreadsAnnualWithholding(t *testing.T) {
	f := NewFixedCost(testSettings())
	f.UpdateTax(15000000)

	// 30% of 15,000,000 over twelve months.
	want := 4500000 / 12
	if f.Tax() != want {
		t.Fatalf("expected monthly tax %d, got %d", want, f.Tax())
	}
}

func TestUpdateRentClampsNegative(t *testing.T) {
	f := NewFixedCost(testSettings())
	f.UpdateRent(-500)
	if f.Rent() != 0 {
		t.Fatalf("negative rent must clamp to zero, got %d", f.Rent())
	}
}

func TestRecalculateMaintenanceScalesWithGymLevel(t *testing.T) {
	f := NewFixedCost(testSettings())
	env := NewEnvironment(101)

	f.RecalculateMaintenance(env)
	if f.Maintenance() != 0 {
		t.Fatalf("no gym means no upkeep, got %d", f.Maintenance())
	}

	env.UpgradeGym()
	env.UpgradeGym()
	f.RecalculateMaintenance(env)
	if f.Maintenance() != 10000 {
		t.Fatalf("expected 10000 upkeep at gym level 2, got %d", f.Maintenance())
	}
}

func TestRecalculateFoodCostPerRank(t *testing.T) {
	f := NewFixedCost(testSettings())
	for rank, want := range map[int]int{0: 10000, 1: 20000, 2: 35000, 3: 60000} {
		f.RecalculateFoodCost(rank)
		if f.FoodCost() != want {
			t.Errorf("rank %d: expected food cost %d, got %d", rank, want, f.FoodCost())
		}
	}
}

func TestCalculateIncomeTax(t *testing.T) {
	f := NewFixedCost(testSettings())
	if got := f.CalculateIncomeTax(15000000); got != 4500000 {
		t.Fatalf("expected income tax 4500000, got %d", got)
	}
}

func TestCalculateFixedAssetTax(t *testing.T) {
	f := NewFixedCost(testSettings())
	if got := f.CalculateFixedAssetTax(); got != 100000 {
		t.Fatalf("expected fixed-asset tax 100000, got %d", got)
	}
}
