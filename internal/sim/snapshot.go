package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotVersion is the current save-schema version. Loads reject any other
// value without touching in-memory state.
const SnapshotVersion = 1

// SnapshotStore is the persistence boundary. Implementations must leave any
// existing stored snapshot intact when Save fails, and must report a missing
// or malformed snapshot as an error from Load.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Load(ctx context.Context) (*Snapshot, error)
	Exists() bool
}

// Snapshot is the aggregate save state: one versioned unit, written and read
// atomically.
type Snapshot struct {
	Version    int       `json:"version"`
	SnapshotID string    `json:"snapshot_id"`
	SavedAt    time.Time `json:"saved_at"`

	CurrentTurn int              `json:"current_turn"`
	Calendar    Calendar         `json:"calendar"`
	Player      PlayerState      `json:"player"`
	Wife        WifeState        `json:"wife"`
	Environment EnvironmentState `json:"environment"`
	Budget      BudgetState      `json:"budget"`
	Reputation  ReputationState  `json:"reputation"`
}

// PlayerState is the husband's save form. Name and position are a cached
// display copy; the master-data record for ID stays authoritative.
type PlayerState struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Position       string `json:"position"`
	Age            int    `json:"age"`
	Health         int    `json:"health"`
	Mental         int    `json:"mental"`
	Condition      int    `json:"condition"`
	Love           int    `json:"love"`
	Ability        int    `json:"ability"`
	TeamEvaluation int    `json:"team_evaluation"`
	Salary         int    `json:"salary"`
}

type WifeState struct {
	Health       int `json:"health"`
	MaxHealth    int `json:"max_health"`
	CookingLevel int `json:"cooking_level"`
	CareLevel    int `json:"care_level"`
	PRLevel      int `json:"pr_level"`
	CoachLevel   int `json:"coach_level"`
}

type EnvironmentState struct {
	HouseID  int `json:"house_id"`
	BedLevel int `json:"bed_level"`
	GymLevel int `json:"gym_level"`
	MealRank int `json:"meal_rank"`
}

type BudgetState struct {
	CurrentSavings int64          `json:"current_savings"`
	FixedCost      FixedCostState `json:"fixed_cost"`
}

type FixedCostState struct {
	Rent        int `json:"rent"`
	Tax         int `json:"tax"`
	Insurance   int `json:"insurance"`
	Maintenance int `json:"maintenance"`
	FoodCost    int `json:"food_cost"`
}

type ReputationState struct {
	Love           int `json:"love"`
	TeamEvaluation int `json:"team_evaluation"`
	PublicEye      int `json:"public_eye"`
}

// captureSnapshot freezes the current aggregate state into a new snapshot.
func (p *Pipeline) captureSnapshot() *Snapshot {
	name, position := "", ""
	if master := p.data.PlayerByID(p.husband.PlayerID()); master != nil {
		name, position = master.Name, master.Position
	}

	return &Snapshot{
		Version:    SnapshotVersion,
		SnapshotID: uuid.NewString(),
		SavedAt:    time.Now().UTC(),

		CurrentTurn: p.currentTurn,
		Calendar:    *p.calendar,
		Player: PlayerState{
			ID:             p.husband.PlayerID(),
			Name:           name,
			Position:       position,
			Age:            p.husband.Age(),
			Health:         p.husband.Health(),
			Mental:         p.husband.Mental(),
			Condition:      p.husband.Condition(),
			Love:           p.husband.Love(),
			Ability:        p.husband.Ability(),
			TeamEvaluation: p.husband.TeamEvaluation(),
			Salary:         p.husband.Salary(),
		},
		Wife: WifeState{
			Health:       p.wife.Health(),
			MaxHealth:    p.wife.MaxHealth(),
			CookingLevel: p.wife.CookingLevel(),
			CareLevel:    p.wife.CareLevel(),
			PRLevel:      p.wife.PRLevel(),
			CoachLevel:   p.wife.CoachLevel(),
		},
		Environment: EnvironmentState{
			HouseID:  p.environment.HouseID(),
			BedLevel: p.environment.BedLevel(),
			GymLevel: p.environment.GymLevel(),
			MealRank: p.environment.MealRank(),
		},
		Budget: BudgetState{
			CurrentSavings: p.budget.CurrentSavings(),
			FixedCost: FixedCostState{
				Rent:        p.budget.FixedCost().Rent(),
				Tax:         p.budget.FixedCost().Tax(),
				Insurance:   p.budget.FixedCost().Insurance(),
				Maintenance: p.budget.FixedCost().Maintenance(),
				FoodCost:    p.budget.FixedCost().FoodCost(),
			},
		},
		Reputation: ReputationState{
			Love:           p.reputation.Love(),
			TeamEvaluation: p.reputation.TeamEvaluation(),
			PublicEye:      p.reputation.PublicEye(),
		},
	}
}

// restoreSnapshot rebuilds every state holder from a snapshot. It validates
// the whole snapshot before assigning anything, so a malformed snapshot
// leaves the pipeline untouched.
func (p *Pipeline) restoreSnapshot(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", snap.Version, SnapshotVersion)
	}
	if snap.Calendar.Month < 1 || snap.Calendar.Month > monthsInYear {
		return fmt.Errorf("snapshot calendar month out of range: %d", snap.Calendar.Month)
	}

	fixed := NewFixedCost(p.data.Settings())
	fixed.rent = snap.Budget.FixedCost.Rent
	fixed.tax = snap.Budget.FixedCost.Tax
	fixed.insurance = snap.Budget.FixedCost.Insurance
	fixed.maintenance = snap.Budget.FixedCost.Maintenance
	fixed.foodCost = snap.Budget.FixedCost.FoodCost

	budget := NewBudget(snap.Budget.CurrentSavings, fixed)
	budget.Insolvency = p.insolvency

	p.currentTurn = snap.CurrentTurn
	p.calendar = &Calendar{Year: snap.Calendar.Year, Month: snap.Calendar.Month}
	p.husband = &Player{
		playerID:  snap.Player.ID,
		age:       snap.Player.Age,
		health:    snap.Player.Health,
		mental:    snap.Player.Mental,
		condition: snap.Player.Condition,
		love:      snap.Player.Love,
		ability:   snap.Player.Ability,
		teamEval:  snap.Player.TeamEvaluation,
		salary:    snap.Player.Salary,
	}
	p.wife = &Wife{
		health:    snap.Wife.Health,
		maxHealth: snap.Wife.MaxHealth,
		cooking:   snap.Wife.CookingLevel,
		care:      snap.Wife.CareLevel,
		pr:        snap.Wife.PRLevel,
		coach:     snap.Wife.CoachLevel,
	}
	p.environment = &Environment{
		houseID:  snap.Environment.HouseID,
		bedLevel: snap.Environment.BedLevel,
		gymLevel: snap.Environment.GymLevel,
		mealRank: snap.Environment.MealRank,
	}
	p.budget = budget
	p.reputation = &Reputation{
		love:      snap.Reputation.Love,
		teamEval:  snap.Reputation.TeamEvaluation,
		publicEye: snap.Reputation.PublicEye,
	}
	p.gameOver = false
	return nil
}
