package sim

import "github.com/talgya/ambition/internal/masterdata"

// Attribute ceilings for the husband's clamped stats.
const (
	MaxHealth = 100
	MaxMental = 100
	MaxLove   = 100
)

// Player is the husband's mutable runtime state. Health, mental, and love are
// clamped to [0, 100]; condition (fatigue) only has a floor; ability grows
// without bound. The display name and position are never stored here; they
// are re-resolved from master data by PlayerID.
type Player struct {
	playerID  int
	age       int
	health    int
	mental    int
	condition int
	love      int
	ability   int
	teamEval  int
	salary    int
}

// NewPlayer creates a husband from his master-data template.
func NewPlayer(master *masterdata.PlayerStats) *Player {
	return &Player{
		playerID:  master.ID,
		age:       master.Age,
		health:    master.Health,
		mental:    master.Mental,
		condition: master.Condition,
		love:      master.Love,
		ability:   master.Ability,
		teamEval:  master.TeamEvaluation,
		salary:    master.Salary,
	}
}

func (p *Player) PlayerID() int       { return p.playerID }
func (p *Player) Age() int            { return p.age }
func (p *Player) Health() int         { return p.health }
func (p *Player) Mental() int         { return p.mental }
func (p *Player) Condition() int      { return p.condition }
func (p *Player) Love() int           { return p.love }
func (p *Player) Ability() int        { return p.ability }
func (p *Player) TeamEvaluation() int { return p.teamEval }
func (p *Player) Salary() int         { return p.salary }

// ChangeHealth adjusts health by amount, clamped to [0, MaxHealth].
func (p *Player) ChangeHealth(amount int) {
	p.health = clampInt(p.health+amount, 0, MaxHealth)
}

// ChangeMental adjusts mental by amount, clamped to [0, MaxMental].
func (p *Player) ChangeMental(amount int) {
	p.mental = clampInt(p.mental+amount, 0, MaxMental)
}

// ChangeCondition adjusts fatigue by amount. It never drops below zero and
// has no ceiling.
func (p *Player) ChangeCondition(amount int) {
	p.condition = maxInt(0, p.condition+amount)
}

// ChangeLove adjusts the husband's private affection, clamped to [0, MaxLove].
func (p *Player) ChangeLove(amount int) {
	p.love = clampInt(p.love+amount, 0, MaxLove)
}

// ChangeTeamEvaluation adjusts the team's rating of the husband.
func (p *Player) ChangeTeamEvaluation(amount int) {
	p.teamEval = maxInt(0, p.teamEval+amount)
}

// GrowAbility accumulates ability. Unbounded.
func (p *Player) GrowAbility(delta int) {
	p.ability += delta
}

// AddAge ages the husband one year. Called at contract renewal.
func (p *Player) AddAge() {
	p.age++
}

// UpdateSalary sets next year's salary after contract renewal.
func (p *Player) UpdateSalary(newSalary int) {
	p.salary = newSalary
}
