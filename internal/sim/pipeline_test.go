package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/talgya/ambition/internal/masterdata"
)

const testMasterYAML = `
players:
  - id: 1001
    name: Haruki
    position: Pitcher
    age: 28
    health: 80
    mental: 70
    condition: 0
    love: 60
    ability: 500
    team_evaluation: 50
    salary: 15000000
wives:
  - id: 1
    name: Misaki
    initial_health: 50
    initial_cooking: 1
    initial_care: 1
    initial_pr: 1
    initial_coach: 1
houses:
  - id: 101
    name: Starter Apartment
    monthly_rent: 80000
  - id: 102
    name: Riverside Condo
    monthly_rent: 150000
food_tiers:
  - rank: 0
    name: Plain
  - rank: 1
    name: Balanced
actions:
  - id: 1
    name: Cook Energy Meal
    tag: CARE
    cost_wife_health: 10
    delta_hp: 5
    delta_cond: -10
  - id: 2
    name: Premium Supplements
    tag: SUPPORT
    cost_money: 150
    delta_hp: 3
  - id: 3
    name: Full Rest
    tag: REST
    sub_category: FULL_REST
  - id: 4
    name: Build Home Gym
    tag: SUPPORT
    sub_category: UPGRADE_GYM
  - id: 5
    name: Move to the Condo
    tag: SUPPORT
    sub_category: RELOCATE
    target_house_id: 102
  - id: 6
    name: Court Sponsors
    tag: SNS
    sub_category: SPONSOR_REQUEST
  - id: 7
    name: Grind Session
    tag: DISCIPLINE
    cost_wife_health: 30
    delta_ability: 20
  - id: 8
    name: Overtraining
    tag: DISCIPLINE
    delta_hp: -200
events:
  - id: 1
    name: Local TV Feature
    description: A short segment airs about the couple.
settings:
  Tax_Rate: 0.3
  Tax_Fixed_Asset: 100000
  Cost_Maint_Gym: 5000
  Cost_Food_Lv0: 10000
  Cost_Food_Lv1: 20000
  Initial_Money: 1000000
  Start_Year: 1
  Start_Month: 3
  Sponsor_PR_Threshold: 3
  Sponsor_Reward: 500000
`

// Monthly obligation right after a new game: rent 80000 + withholding
// 4500000/12 + food 10000.
const newGameMonthlyCost = 80000 + 375000 + 10000

type memStore struct {
	snap *Snapshot
}

func (m *memStore) Save(_ context.Context, snap *Snapshot) error {
	m.snap = snap
	return nil
}

func (m *memStore) Load(_ context.Context) (*Snapshot, error) {
	if m.snap == nil {
		return nil, errors.New("no snapshot stored")
	}
	return m.snap, nil
}

func (m *memStore) Exists() bool { return m.snap != nil }

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	data, err := masterdata.LoadBytes([]byte(testMasterYAML))
	if err != nil {
		t.Fatalf("load master data: %v", err)
	}
	p := NewPipeline(data, &memStore{})
	if err := p.StartNewGame(1001, 1, 101); err != nil {
		t.Fatalf("start new game: %v", err)
	}
	return p
}

func action(t *testing.T, p *Pipeline, id int) *masterdata.Action {
	t.Helper()
	a := p.Data().ActionByID(id)
	if a == nil {
		t.Fatalf("no action %d in test master data", id)
	}
	return a
}

func TestStartNewGameInitialState(t *testing.T) {
	p := newTestPipeline(t)

	if got := p.Budget().CurrentSavings(); got != 1000000 {
		t.Errorf("expected savings 1000000, got %d", got)
	}
	if got := p.Budget().FixedCost().Rent(); got != 80000 {
		t.Errorf("expected rent 80000, got %d", got)
	}
	if got := p.Budget().FixedCost().Tax(); got != 375000 {
		t.Errorf("expected monthly withholding 375000, got %d", got)
	}
	if cal := p.Calendar(); cal.Year != 1 || cal.Month != 3 {
		t.Errorf("expected calendar (1, 3), got (%d, %d)", cal.Year, cal.Month)
	}
	if p.CurrentTurn() != 1 {
		t.Errorf("expected turn 1, got %d", p.CurrentTurn())
	}
	if p.HusbandName() != "Haruki" {
		t.Errorf("expected husband name Haruki, got %q", p.HusbandName())
	}
	if p.Wife().Health() != 50 {
		t.Errorf("expected wife at full health 50, got %d", p.Wife().Health())
	}
	if p.Environment().BedLevel() != 1 || p.Environment().GymLevel() != 0 {
		t.Errorf("expected bed 1 / gym 0, got %d / %d",
			p.Environment().BedLevel(), p.Environment().GymLevel())
	}
	if r := p.Reputation(); r.Love() != 60 || r.TeamEvaluation() != 50 || r.PublicEye() != 0 {
		t.Errorf("expected reputation (60, 50, 0), got (%d, %d, %d)",
			r.Love(), r.TeamEvaluation(), r.PublicEye())
	}
}

func TestStartNewGameUnknownMasterIDs(t *testing.T) {
	data, err := masterdata.LoadBytes([]byte(testMasterYAML))
	if err != nil {
		t.Fatalf("load master data: %v", err)
	}
	p := NewPipeline(data, &memStore{})

	if err := p.StartNewGame(9999, 1, 101); err == nil {
		t.Error("expected error for unknown player id")
	}
	if err := p.StartNewGame(1001, 9999, 101); err == nil {
		t.Error("expected error for unknown wife id")
	}
	if err := p.StartNewGame(1001, 1, 9999); err == nil {
		t.Error("expected error for unknown house id")
	}
}

func TestExecuteActionRejectionIsAtomic(t *testing.T) {
	p := newTestPipeline(t)

	// Leave exactly 100 in the bank, then attempt a 150 purchase.
	p.Budget().TrySpend(int(p.Budget().CurrentSavings()) - 100)
	healthBefore := p.Husband().Health()
	wifeBefore := p.Wife().Health()

	if p.ExecuteAction(action(t, p, 2)) {
		t.Fatal("expected action costing 150 against savings 100 to be rejected")
	}
	if got := p.Budget().CurrentSavings(); got != 100 {
		t.Errorf("rejection must not touch savings, got %d", got)
	}
	if p.CurrentTurn() != 1 {
		t.Errorf("rejection must not advance the turn, got %d", p.CurrentTurn())
	}
	if cal := p.Calendar(); cal.Month != 3 {
		t.Errorf("rejection must not advance the calendar, got month %d", cal.Month)
	}
	if p.Husband().Health() != healthBefore || p.Wife().Health() != wifeBefore {
		t.Error("rejection must not change any stats")
	}
}

func TestExecuteActionAppliesDeltasAndAdvances(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7 // no scheduled financial event

	if !p.ExecuteAction(action(t, p, 1)) {
		t.Fatal("expected action to resolve")
	}
	if got := p.Husband().Health(); got != 85 {
		t.Errorf("expected husband health 85, got %d", got)
	}
	if got := p.Husband().Condition(); got != 0 {
		t.Errorf("fatigue must floor at 0, got %d", got)
	}
	if got := p.Wife().Health(); got != 40 {
		t.Errorf("expected wife health 40 after cost 10, got %d", got)
	}
	if got := p.Budget().CurrentSavings(); got != 1000000-newGameMonthlyCost {
		t.Errorf("expected savings %d after fixed costs, got %d", 1000000-newGameMonthlyCost, got)
	}
	if p.CurrentTurn() != 2 {
		t.Errorf("expected turn 2, got %d", p.CurrentTurn())
	}
	if cal := p.Calendar(); cal.Month != 8 {
		t.Errorf("expected month 8, got %d", cal.Month)
	}
}

func TestJanuarySalaryDepositedBeforeFixedCosts(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 1
	p.Budget().TrySpend(int(p.Budget().CurrentSavings())) // empty the account

	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected turn to resolve")
	}
	want := int64(15000000 - newGameMonthlyCost)
	if got := p.Budget().CurrentSavings(); got != want {
		t.Errorf("salary must land before fixed costs are paid: expected %d, got %d", want, got)
	}
}

func TestMarchIncomeTax(t *testing.T) {
	p := newTestPipeline(t)
	p.Budget().AddIncome(20000000) // enough to cover the annual tax bill

	before := p.Budget().CurrentSavings()
	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected turn to resolve")
	}
	want := before - 4500000 - newGameMonthlyCost
	if got := p.Budget().CurrentSavings(); got != want {
		t.Errorf("expected savings %d after income tax and fixed costs, got %d", want, got)
	}
}

func TestMarchIncomeTaxShortfallDoesNotAbortTurn(t *testing.T) {
	p := newTestPipeline(t)
	// Savings of 1,000,000 cannot cover the 4,500,000 tax bill; the turn must
	// still run to completion with the bill skipped.
	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected turn to resolve despite unpayable tax")
	}
	if got := p.Budget().CurrentSavings(); got != 1000000-newGameMonthlyCost {
		t.Errorf("expected only fixed costs deducted, got %d", got)
	}
	if p.CurrentTurn() != 2 {
		t.Errorf("expected turn 2, got %d", p.CurrentTurn())
	}
}

func TestDecemberContractRenewal(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 12
	p.Budget().AddIncome(10000000)

	ageBefore := p.Husband().Age()
	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected turn to resolve")
	}

	// Evaluation 50 means a 50% raise.
	if got := p.Husband().Salary(); got != 22500000 {
		t.Errorf("expected renewed salary 22500000, got %d", got)
	}
	if got := p.Husband().Age(); got != ageBefore+1 {
		t.Errorf("renewal must age the husband, got %d", got)
	}
	if got := p.Budget().FixedCost().Tax(); got != 562500 {
		t.Errorf("withholding must follow the new salary, expected 562500, got %d", got)
	}
	if cal := p.Calendar(); cal.Year != 2 || cal.Month != 1 {
		t.Errorf("expected calendar (2, 1) after December, got (%d, %d)", cal.Year, cal.Month)
	}
}

func TestWifeHealthGatesNonRestActions(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7
	p.Wife().ConsumeHealth(30) // 50 -> 20, below the Grind Session cost of 30

	if p.ExecuteAction(action(t, p, 7)) {
		t.Fatal("expected action to be rejected on wife health")
	}
	if p.CurrentTurn() != 1 {
		t.Errorf("rejection must not advance the turn, got %d", p.CurrentTurn())
	}

	// Rest bypasses the gate entirely.
	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("rest action must not be gated on wife health")
	}
}

func TestFullRestRecoversHalfMax(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7
	p.Wife().ConsumeHealth(40) // 50 -> 10

	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected rest to resolve")
	}
	if got := p.Wife().Health(); got != 35 {
		t.Errorf("expected 10 + 25 = 35 wife health, got %d", got)
	}
}

func TestUpgradeGymRecalculatesMaintenance(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7

	if !p.ExecuteAction(action(t, p, 4)) {
		t.Fatal("expected upgrade to resolve")
	}
	if got := p.Environment().GymLevel(); got != 1 {
		t.Errorf("expected gym level 1, got %d", got)
	}
	if got := p.Budget().FixedCost().Maintenance(); got != 5000 {
		t.Errorf("expected maintenance 5000, got %d", got)
	}
}

func TestRelocationUpdatesRent(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7

	if !p.ExecuteAction(action(t, p, 5)) {
		t.Fatal("expected relocation to resolve")
	}
	if got := p.Environment().HouseID(); got != 102 {
		t.Errorf("expected house 102, got %d", got)
	}
	if got := p.Budget().FixedCost().Rent(); got != 150000 {
		t.Errorf("expected rent 150000, got %d", got)
	}
}

func TestSponsorRequestThreshold(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7

	// PR level 1 is below the threshold of 3: declined, no reward.
	before := p.Budget().CurrentSavings()
	if !p.ExecuteAction(action(t, p, 6)) {
		t.Fatal("expected turn to resolve")
	}
	if got := p.Budget().CurrentSavings(); got != before-int64(newGameMonthlyCost) {
		t.Errorf("declined request must not pay out, got %d", got)
	}

	p.Wife().AddPRLevel(5)
	before = p.Budget().CurrentSavings()
	eyeBefore := p.Reputation().PublicEye()
	if !p.ExecuteAction(action(t, p, 6)) {
		t.Fatal("expected turn to resolve")
	}
	want := before + 500000 - int64(newGameMonthlyCost)
	if got := p.Budget().CurrentSavings(); got != want {
		t.Errorf("expected sponsor reward 500000, savings %d, got %d", want, got)
	}
	if got := p.Reputation().PublicEye(); got != eyeBefore+5 {
		t.Errorf("sponsorship must raise public eye, got %d", got)
	}
}

func TestGameOverOnHealthZero(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7

	if p.ExecuteAction(action(t, p, 8)) {
		t.Fatal("expected the fatal turn to return false")
	}
	if !p.GameOver() {
		t.Fatal("expected game over when husband health hits zero")
	}
	if p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("no actions may resolve after game over")
	}
}

func TestChangeMealRankUpdatesFoodCost(t *testing.T) {
	p := newTestPipeline(t)

	p.ChangeMealRank(1)
	if got := p.Budget().FixedCost().FoodCost(); got != 20000 {
		t.Errorf("expected food cost 20000 at rank 1, got %d", got)
	}
	p.ChangeMealRank(99)
	if got := p.Environment().MealRank(); got != MaxMealRank {
		t.Errorf("meal rank must clamp to %d, got %d", MaxMealRank, got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7
	if !p.ExecuteAction(action(t, p, 1)) {
		t.Fatal("expected action to resolve")
	}

	ctx := context.Background()
	if err := p.SaveGame(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !p.HasSaveData() {
		t.Fatal("expected save data to exist after save")
	}

	savedTurn := p.CurrentTurn()
	savedSavings := p.Budget().CurrentSavings()
	savedWife := p.Wife().Health()

	// Keep playing, then load: state must roll back to the snapshot.
	if !p.ExecuteAction(action(t, p, 1)) {
		t.Fatal("expected action to resolve")
	}
	if err := p.LoadGame(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if p.CurrentTurn() != savedTurn {
		t.Errorf("expected turn %d after load, got %d", savedTurn, p.CurrentTurn())
	}
	if p.Budget().CurrentSavings() != savedSavings {
		t.Errorf("expected savings %d after load, got %d", savedSavings, p.Budget().CurrentSavings())
	}
	if p.Wife().Health() != savedWife {
		t.Errorf("expected wife health %d after load, got %d", savedWife, p.Wife().Health())
	}
	if p.HusbandName() != "Haruki" {
		t.Errorf("husband name must re-resolve from master data, got %q", p.HusbandName())
	}
}

func TestLoadRejectsUnknownSnapshotVersion(t *testing.T) {
	p := newTestPipeline(t)
	ctx := context.Background()
	if err := p.SaveGame(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	store := p.store.(*memStore)
	store.snap.Version = 99

	turnBefore := p.CurrentTurn()
	if err := p.LoadGame(ctx); err == nil {
		t.Fatal("expected load of unknown snapshot version to fail")
	}
	if p.CurrentTurn() != turnBefore {
		t.Error("failed load must leave runtime state untouched")
	}
}

func TestExecuteActionRejectsWhileBusy(t *testing.T) {
	p := newTestPipeline(t)
	p.Calendar().Month = 7

	p.busy.Store(true)
	if p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected rejection while another turn is executing")
	}
	p.busy.Store(false)
	if !p.ExecuteAction(action(t, p, 3)) {
		t.Fatal("expected execution once the guard clears")
	}
}

func TestSaveRejectsWhileIOInFlight(t *testing.T) {
	p := newTestPipeline(t)
	ctx := context.Background()

	p.io.Store(true)
	if err := p.SaveGame(ctx); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	if err := p.LoadGame(ctx); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	p.io.Store(false)
	if err := p.SaveGame(ctx); err != nil {
		t.Fatalf("expected save to succeed once the guard clears, got %v", err)
	}
}

func TestSaveBeforeGameStartFails(t *testing.T) {
	data, err := masterdata.LoadBytes([]byte(testMasterYAML))
	if err != nil {
		t.Fatalf("load master data: %v", err)
	}
	p := NewPipeline(data, &memStore{})
	if err := p.SaveGame(context.Background()); err == nil {
		t.Fatal("expected save before game start to fail")
	}
}
