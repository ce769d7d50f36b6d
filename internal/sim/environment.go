package sim

// Meal rank bounds.
const (
	MinMealRank = 0
	MaxMealRank = 3
)

// Environment tracks where the household lives and what equipment it owns.
// Upgrade levels feed the fixed-cost maintenance recalculation.
type Environment struct {
	houseID  int
	bedLevel int
	gymLevel int
	mealRank int
}

// NewEnvironment creates the starting environment for a house. The bed comes
// with the house at level 1; the gym starts unowned at level 0.
func NewEnvironment(initialHouseID int) *Environment {
	return &Environment{
		houseID:  initialHouseID,
		bedLevel: 1,
		gymLevel: 0,
		mealRank: 0,
	}
}

func (e *Environment) HouseID() int  { return e.houseID }
func (e *Environment) BedLevel() int { return e.bedLevel }
func (e *Environment) GymLevel() int { return e.gymLevel }
func (e *Environment) MealRank() int { return e.mealRank }

// MoveHouse relocates the household.
func (e *Environment) MoveHouse(newHouseID int) {
	e.houseID = newHouseID
}

// ChangeMealRank sets the meal rank, clamped to [MinMealRank, MaxMealRank].
func (e *Environment) ChangeMealRank(rank int) {
	e.mealRank = clampInt(rank, MinMealRank, MaxMealRank)
}

// UpgradeGym raises the gym one level.
func (e *Environment) UpgradeGym() {
	e.gymLevel++
}

// UpgradeBed raises the bed one level.
func (e *Environment) UpgradeBed() {
	e.bedLevel++
}
