package sim

import "github.com/talgya/ambition/internal/masterdata"

// Wife is the wife's mutable runtime state: a health pool consumed by actions
// and restored by rest, plus four skill levels that grow through the
// skill-update phase.
type Wife struct {
	health    int
	maxHealth int

	cooking int
	care    int
	pr      int
	coach   int
}

// NewWife creates a wife from her master-data template at full health.
func NewWife(master *masterdata.WifeStats) *Wife {
	return &Wife{
		health:    master.InitialHealth,
		maxHealth: master.InitialHealth,
		cooking:   master.InitialCooking,
		care:      master.InitialCare,
		pr:        master.InitialPR,
		coach:     master.InitialCoach,
	}
}

func (w *Wife) Health() int       { return w.health }
func (w *Wife) MaxHealth() int    { return w.maxHealth }
func (w *Wife) CookingLevel() int { return w.cooking }
func (w *Wife) CareLevel() int    { return w.care }
func (w *Wife) PRLevel() int      { return w.pr }
func (w *Wife) CoachLevel() int   { return w.coach }

// ConsumeHealth deducts an action's health cost, floored at zero.
func (w *Wife) ConsumeHealth(amount int) {
	w.health = maxInt(0, w.health-amount)
}

// RecoverHealth restores health up to the maximum.
func (w *Wife) RecoverHealth(amount int) {
	w.health = w.health + amount
	if w.health > w.maxHealth {
		w.health = w.maxHealth
	}
}

// Skill growth. The leveling formula is an open extension point; for now a
// level-up is a direct increment applied by the pipeline's skill updater.

func (w *Wife) AddCookingLevel(n int) { w.cooking = maxInt(0, w.cooking+n) }
func (w *Wife) AddCareLevel(n int)    { w.care = maxInt(0, w.care+n) }
func (w *Wife) AddPRLevel(n int)      { w.pr = maxInt(0, w.pr+n) }
func (w *Wife) AddCoachLevel(n int)   { w.coach = maxInt(0, w.coach+n) }
