package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/talgya/ambition/internal/masterdata"
)

// ErrBusy is returned when a save or load is requested while another is
// already in flight.
var ErrBusy = errors.New("operation already in flight")

// Pipeline owns the aggregate runtime state and resolves one turn at a time:
// it validates a selected action, applies its effects in fixed order, runs
// the month-keyed financial events, pays fixed costs, and advances the
// calendar. It is not reentrant; a busy flag rejects overlapping calls.
type Pipeline struct {
	data  *masterdata.Provider
	store SnapshotStore

	husband     *Player
	wife        *Wife
	environment *Environment
	budget      *Budget
	calendar    *Calendar
	reputation  *Reputation

	currentTurn  int
	gameOver     bool
	currentEvent *masterdata.GameEvent

	insolvency InsolvencyPolicy

	// Extension hooks. Nil hooks are skipped.

	// EventPicker selects a random event for months with no scheduled one.
	EventPicker func(cal Calendar, candidates []*masterdata.GameEvent) *masterdata.GameEvent
	// SponsorRule decides whether a sponsor request succeeds. The default is
	// a placeholder threshold on the wife's PR level.
	SponsorRule func(w *Wife) bool
	// GameOverRule is the continue/halt predicate checked each turn. The
	// default ends the game when the husband's health reaches zero.
	GameOverRule func(p *Pipeline) bool
	// SkillUpdater runs the wife skill experience phase. No default formula.
	SkillUpdater func(w *Wife, a *masterdata.Action)
	// OnAnnualEvents and OnSettleIncome run their respective phases.
	OnAnnualEvents func(p *Pipeline)
	OnSettleIncome func(p *Pipeline)

	busy atomic.Bool // turn execution guard
	io   atomic.Bool // save/load single-flight guard
}

// NewPipeline creates a pipeline over the given master data and snapshot
// store. Call StartNewGame or LoadGame before executing actions.
func NewPipeline(data *masterdata.Provider, store SnapshotStore) *Pipeline {
	return &Pipeline{data: data, store: store}
}

// Read accessors for the state holders.

func (p *Pipeline) Husband() *Player                    { return p.husband }
func (p *Pipeline) Wife() *Wife                         { return p.wife }
func (p *Pipeline) Environment() *Environment           { return p.environment }
func (p *Pipeline) Budget() *Budget                     { return p.budget }
func (p *Pipeline) Calendar() *Calendar                 { return p.calendar }
func (p *Pipeline) Reputation() *Reputation             { return p.reputation }
func (p *Pipeline) CurrentTurn() int                    { return p.currentTurn }
func (p *Pipeline) GameOver() bool                      { return p.gameOver }
func (p *Pipeline) CurrentEvent() *masterdata.GameEvent { return p.currentEvent }
func (p *Pipeline) Data() *masterdata.Provider          { return p.data }

// HusbandName resolves the husband's display name from master data by id.
func (p *Pipeline) HusbandName() string {
	if p.husband == nil {
		return ""
	}
	if master := p.data.PlayerByID(p.husband.PlayerID()); master != nil {
		return master.Name
	}
	return "Unknown"
}

// SetInsolvencyPolicy swaps the forced-payment shortfall policy.
func (p *Pipeline) SetInsolvencyPolicy(policy InsolvencyPolicy) {
	p.insolvency = policy
	if p.budget != nil {
		p.budget.Insolvency = policy
	}
}

// StartNewGame initializes all state holders from master data.
func (p *Pipeline) StartNewGame(playerID, wifeTypeID, initialHouseID int) error {
	playerMaster := p.data.PlayerByID(playerID)
	if playerMaster == nil {
		return fmt.Errorf("no player master data for id %d", playerID)
	}
	wifeMaster := p.data.WifeByID(wifeTypeID)
	if wifeMaster == nil {
		return fmt.Errorf("no wife master data for id %d", wifeTypeID)
	}
	houseMaster := p.data.HouseByID(initialHouseID)
	if houseMaster == nil {
		return fmt.Errorf("no housing master data for id %d", initialHouseID)
	}

	settings := p.data.Settings()

	p.husband = NewPlayer(playerMaster)
	if p.husband.Salary() <= 0 {
		// Master rows without a salary get the league-minimum placeholder.
		p.husband.UpdateSalary(15000000)
	}
	p.wife = NewWife(wifeMaster)
	p.environment = NewEnvironment(initialHouseID)
	p.reputation = NewReputation()

	fixed := NewFixedCost(settings)
	p.budget = NewBudget(int64(settings.GetInt(masterdata.KeyInitialMoney, 1000000)), fixed)
	p.budget.Insolvency = p.insolvency

	fixed.UpdateRent(houseMaster.MonthlyRent)
	fixed.UpdateTax(p.husband.Salary())
	fixed.RecalculateMaintenance(p.environment)
	fixed.RecalculateFoodCost(p.environment.MealRank())

	p.calendar = NewCalendar(
		settings.GetInt(masterdata.KeyStartYear, 1),
		settings.GetInt(masterdata.KeyStartMonth, 3),
	)
	p.currentTurn = 1
	p.gameOver = false
	p.currentEvent = nil

	slog.Info("new game started",
		"player", playerMaster.Name,
		"salary", humanize.Comma(int64(p.husband.Salary())),
		"savings", humanize.Comma(p.budget.CurrentSavings()),
		"year", p.calendar.Year,
		"month", p.calendar.Month,
	)
	return nil
}

// ExecuteAction resolves one full turn for the selected action. If the
// requirement check fails, no state is mutated and false is returned. Once
// the apply phase begins the whole turn runs to completion; mid-pipeline
// shortfalls (scheduled taxes, fixed costs) are soft failures, not aborts.
func (p *Pipeline) ExecuteAction(action *masterdata.Action) bool {
	if action == nil {
		slog.Warn("nil action rejected")
		return false
	}
	if p.husband == nil {
		slog.Warn("action rejected: game not started")
		return false
	}
	if p.gameOver {
		slog.Warn("action rejected: game is over")
		return false
	}
	if !p.busy.CompareAndSwap(false, true) {
		slog.Warn("action rejected: turn already executing")
		return false
	}
	defer p.busy.Store(false)

	if !p.checkRequirements(action) {
		return false
	}

	p.currentEvent = nil

	p.applyAction(action)
	p.processScheduledEvents()
	p.processAnnualEvents()
	p.settleIncome()
	halted := p.settleExpenses()

	if halted || !p.checkGameOver() {
		p.gameOver = true
		slog.Warn("game over", "turn", p.currentTurn, "year", p.calendar.Year, "month", p.calendar.Month)
		return false
	}

	p.updateWifeSkill(action)
	p.advanceTurn()

	slog.Info("action resolved",
		"action", action.Name,
		"category", action.Category().String(),
		"turn", p.currentTurn,
	)
	return true
}

// checkRequirements verifies affordability without mutating anything. Rest
// actions skip the wife-health check: they are how her health comes back.
func (p *Pipeline) checkRequirements(action *masterdata.Action) bool {
	if p.budget.CurrentSavings() < int64(action.CostMoney) {
		slog.Warn("insufficient funds for action",
			"action", action.Name,
			"cost", humanize.Comma(int64(action.CostMoney)),
			"savings", humanize.Comma(p.budget.CurrentSavings()),
		)
		return false
	}
	if action.CostWifeHealth > 0 && !action.IsRest() && p.wife.Health() < action.CostWifeHealth {
		slog.Warn("insufficient wife health for action",
			"action", action.Name,
			"cost", action.CostWifeHealth,
			"health", p.wife.Health(),
		)
		return false
	}
	return true
}

// applyAction consumes resources then applies deltas in fixed order:
// husband, reputation, then sub-category special logic.
func (p *Pipeline) applyAction(action *masterdata.Action) {
	// Resources.
	if action.CostMoney > 0 {
		p.budget.TrySpend(action.CostMoney)
	} else if action.CostMoney < 0 {
		p.budget.AddIncome(-action.CostMoney)
	}
	if action.CostWifeHealth > 0 && !action.IsRest() {
		p.wife.ConsumeHealth(action.CostWifeHealth)
	}

	// Husband deltas, each independently clamped.
	if action.DeltaHP != 0 {
		p.husband.ChangeHealth(action.DeltaHP)
	}
	if action.DeltaMP != 0 {
		p.husband.ChangeMental(action.DeltaMP)
	}
	if action.DeltaCondition != 0 {
		p.husband.ChangeCondition(action.DeltaCondition)
	}
	if action.DeltaLove != 0 {
		p.husband.ChangeLove(action.DeltaLove)
	}
	if action.DeltaAbility != 0 {
		p.husband.GrowAbility(action.DeltaAbility)
	}

	// Team evaluation feeds both the husband's contract stat and its public
	// mirror; public eye is reputation-only.
	if action.DeltaTeamEvaluation != 0 {
		p.husband.ChangeTeamEvaluation(action.DeltaTeamEvaluation)
		p.reputation.ChangeTeamEvaluation(action.DeltaTeamEvaluation)
	}
	if action.DeltaPublicEye != 0 {
		p.reputation.ChangePublicEye(action.DeltaPublicEye)
	}

	p.applySpecialLogic(action)
}

// applySpecialLogic dispatches sub-category behavior.
func (p *Pipeline) applySpecialLogic(action *masterdata.Action) {
	switch action.SubCategory {
	case masterdata.SubFullRest:
		recovered := p.wife.MaxHealth() / 2
		p.wife.RecoverHealth(recovered)
		slog.Info("full rest", "recovered", recovered, "wife_health", p.wife.Health())

	case masterdata.SubUpgradeGym:
		p.environment.UpgradeGym()
		p.budget.FixedCost().RecalculateMaintenance(p.environment)
		slog.Info("gym upgraded",
			"level", p.environment.GymLevel(),
			"maintenance", p.budget.FixedCost().Maintenance(),
		)

	case masterdata.SubUpgradeBed:
		p.environment.UpgradeBed()
		slog.Info("bed upgraded", "level", p.environment.BedLevel())

	case masterdata.SubRelocate:
		p.moveHouse(action.TargetHouseID)

	case masterdata.SubSponsor:
		p.requestSponsor()
	}
}

func (p *Pipeline) moveHouse(newHouseID int) {
	house := p.data.HouseByID(newHouseID)
	if house == nil {
		slog.Warn("relocation target not in master data", "house_id", newHouseID)
		return
	}
	p.environment.MoveHouse(newHouseID)
	p.budget.FixedCost().UpdateRent(house.MonthlyRent)
	slog.Info("moved house", "house", house.Name, "rent", humanize.Comma(int64(house.MonthlyRent)))
}

// requestSponsor runs the sponsor-request check. The success condition is a
// placeholder threshold over the wife's PR level until the real formula is
// decided.
func (p *Pipeline) requestSponsor() {
	rule := p.SponsorRule
	if rule == nil {
		threshold := p.data.Settings().GetInt(masterdata.KeySponsorPRMin, 3)
		rule = func(w *Wife) bool { return w.PRLevel() >= threshold }
	}

	if !rule(p.wife) {
		slog.Info("sponsor request declined", "pr_level", p.wife.PRLevel())
		return
	}

	reward := p.data.Settings().GetInt(masterdata.KeySponsorReward, 500000)
	p.budget.AddIncome(reward)
	p.reputation.ChangePublicEye(5)
	slog.Info("sponsor acquired", "reward", humanize.Comma(int64(reward)))
}

// processScheduledEvents runs the financial event keyed by the current month,
// before the calendar advances. Months without a scheduled event consult the
// random-event picker instead.
func (p *Pipeline) processScheduledEvents() {
	fixed := p.budget.FixedCost()

	switch p.calendar.Month {
	case 1: // Annual salary lands in January.
		p.budget.AddIncome(p.husband.Salary())
		slog.Info("january salary deposited", "salary", humanize.Comma(int64(p.husband.Salary())))

	case 3: // Income tax. Shortfall warns but never blocks the turn.
		incomeTax := fixed.CalculateIncomeTax(p.husband.Salary())
		if !p.budget.TrySpend(incomeTax) {
			slog.Warn("cannot pay income tax", "tax", humanize.Comma(int64(incomeTax)))
		} else {
			slog.Info("march income tax paid", "tax", humanize.Comma(int64(incomeTax)))
		}

	case 5: // Fixed-asset tax, same shortfall policy.
		assetTax := fixed.CalculateFixedAssetTax()
		if !p.budget.TrySpend(assetTax) {
			slog.Warn("cannot pay fixed-asset tax", "tax", humanize.Comma(int64(assetTax)))
		} else {
			slog.Info("may fixed-asset tax paid", "tax", humanize.Comma(int64(assetTax)))
		}

	case 12: // Contract renewal: 1% raise per evaluation point.
		newSalary := int(float64(p.husband.Salary()) * (1.0 + float64(p.husband.TeamEvaluation())*0.01))
		p.husband.UpdateSalary(newSalary)
		p.husband.AddAge()
		fixed.UpdateTax(newSalary)
		slog.Info("contract renewed",
			"salary", humanize.Comma(int64(newSalary)),
			"evaluation", p.husband.TeamEvaluation(),
			"age", p.husband.Age(),
		)

	default:
		if p.EventPicker != nil {
			if ev := p.EventPicker(*p.calendar, p.data.Events()); ev != nil {
				p.currentEvent = ev
				slog.Info("random event", "event", ev.Name)
			}
		}
	}
}

func (p *Pipeline) processAnnualEvents() {
	if p.OnAnnualEvents != nil {
		p.OnAnnualEvents(p)
	}
}

func (p *Pipeline) settleIncome() {
	if p.OnSettleIncome != nil {
		p.OnSettleIncome(p)
	}
}

// settleExpenses pays the monthly fixed costs. Returns true if the
// insolvency policy halted the game.
func (p *Pipeline) settleExpenses() bool {
	return p.budget.PayMonthlyFixedCosts()
}

// checkGameOver returns true while the game may continue.
func (p *Pipeline) checkGameOver() bool {
	rule := p.GameOverRule
	if rule == nil {
		rule = func(p *Pipeline) bool { return p.husband.Health() > 0 }
	}
	return rule(p)
}

func (p *Pipeline) updateWifeSkill(action *masterdata.Action) {
	if p.SkillUpdater != nil {
		p.SkillUpdater(p.wife, action)
	}
}

func (p *Pipeline) advanceTurn() {
	p.currentTurn++
	p.calendar.AdvanceMonth()
}

// ChangeMealRank sets the meal rank and rederives the food cost.
func (p *Pipeline) ChangeMealRank(rank int) {
	p.environment.ChangeMealRank(rank)
	p.budget.FixedCost().RecalculateFoodCost(p.environment.MealRank())
	slog.Info("meal rank changed",
		"rank", p.environment.MealRank(),
		"food_cost", humanize.Comma(int64(p.budget.FixedCost().FoodCost())),
	)
}

// HasSaveData reports whether the store holds a snapshot.
func (p *Pipeline) HasSaveData() bool {
	return p.store != nil && p.store.Exists()
}

// SaveGame captures the aggregate state and writes it through the store.
// Only one save or load may be in flight at a time.
func (p *Pipeline) SaveGame(ctx context.Context) error {
	if p.store == nil {
		return errors.New("no snapshot store configured")
	}
	if p.husband == nil {
		return errors.New("nothing to save: game not started")
	}
	if !p.io.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer p.io.Store(false)

	snap := p.captureSnapshot()
	if err := p.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	slog.Info("game saved", "snapshot_id", snap.SnapshotID, "turn", snap.CurrentTurn)
	return nil
}

// LoadGame reads the stored snapshot and atomically replaces all runtime
// state. A failed or cancelled load leaves the current state untouched.
func (p *Pipeline) LoadGame(ctx context.Context) error {
	if p.store == nil {
		return errors.New("no snapshot store configured")
	}
	if !p.io.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer p.io.Store(false)

	snap, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	if err := p.restoreSnapshot(snap); err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	slog.Info("game loaded", "snapshot_id", snap.SnapshotID, "turn", snap.CurrentTurn)
	return nil
}
