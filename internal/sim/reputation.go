package sim

// Reputation holds the public-facing sentiment scores: how the marriage looks
// from outside, how the team rates the husband, and how visible the couple is
// to the public. Distinct from the husband's private love stat; the two are
// never merged.
type Reputation struct {
	love      int
	teamEval  int
	publicEye int
}

// NewReputation creates the starting reputation for a new game.
func NewReputation() *Reputation {
	return &Reputation{
		love:      60,
		teamEval:  50,
		publicEye: 0,
	}
}

func (r *Reputation) Love() int           { return r.love }
func (r *Reputation) TeamEvaluation() int { return r.teamEval }
func (r *Reputation) PublicEye() int      { return r.publicEye }

// ChangeLove adjusts the public spousal sentiment, clamped to [0, MaxLove].
func (r *Reputation) ChangeLove(amount int) {
	r.love = clampInt(r.love+amount, 0, MaxLove)
}

// ChangeTeamEvaluation adjusts the public team rating, floored at zero.
func (r *Reputation) ChangeTeamEvaluation(amount int) {
	r.teamEval = maxInt(0, r.teamEval+amount)
}

// ChangePublicEye adjusts public visibility, floored at zero.
func (r *Reputation) ChangePublicEye(amount int) {
	r.publicEye = maxInt(0, r.publicEye+amount)
}
