package pickup

import (
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
)

// StatDelta is a change to a member's lifetime and per-format counters.
type StatDelta struct {
	PickupWins   int
	PickupLosses int
	Wins3v3      int
	Losses3v3    int
	Wins4v4      int
	Losses4v4    int
	Wins5v5      int
	Losses5v5    int
}

// ResultDelta is the delta one finished game applies to a player. 2v2 games
// only count towards the lifetime counters.
func ResultDelta(format int, won bool) StatDelta {
	var d StatDelta
	if won {
		d.PickupWins = 1
		switch format {
		case 3:
			d.Wins3v3 = 1
		case 4:
			d.Wins4v4 = 1
		case 5:
			d.Wins5v5 = 1
		}
		return d
	}
	d.PickupLosses = 1
	switch format {
	case 3:
		d.Losses3v3 = 1
	case 4:
		d.Losses4v4 = 1
	case 5:
		d.Losses5v5 = 1
	}
	return d
}

func (d StatDelta) Negate() StatDelta {
	return StatDelta{
		PickupWins:   -d.PickupWins,
		PickupLosses: -d.PickupLosses,
		Wins3v3:      -d.Wins3v3,
		Losses3v3:    -d.Losses3v3,
		Wins4v4:      -d.Wins4v4,
		Losses4v4:    -d.Losses4v4,
		Wins5v5:      -d.Wins5v5,
		Losses5v5:    -d.Losses5v5,
	}
}

// Outcome lists the counter changes a Finalize or Revert applies.
type Outcome struct {
	Winner        Team
	Loser         Team
	WinnerMembers []int64
	LoserMembers  []int64
	WinnerDelta   StatDelta
	LoserDelta    StatDelta
}

// Finalize commits the score of a pending game whose players are all on
// teams of at least Format players each.
func (g *Game) Finalize(actorID int64, ringersScore, ballersScore *int) (*Outcome, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, err
	}
	if g.Status != StatusPending {
		return nil, apperr.New(apperr.ErrCodeDomainState, "Game must be pending")
	}
	if len(g.Partition(PlayerUnassigned)) != 0 {
		return nil, apperr.New(apperr.ErrCodeDomainState, "You still have players in the game who are unassigned. Please add them to a team or remove them from the game to finalize the score.")
	}
	for _, t := range []Team{g.Ringers, g.Ballers} {
		if len(g.TeamPlayers(t)) < g.Format {
			return nil, apperr.Newf(apperr.ErrCodeDomainState, "Both teams must have at least %d players for the game score to be finalized", g.Format)
		}
	}
	if ringersScore == nil || ballersScore == nil {
		return nil, apperr.New(apperr.ErrCodeValidation, "Score for both Ringers and Ballers must be provided")
	}
	for _, s := range []int{*ringersScore, *ballersScore} {
		if s < 0 || s > MaxScore {
			return nil, apperr.Newf(apperr.ErrCodeValidation, "scores must be between 0 and %d", MaxScore)
		}
	}
	if *ringersScore == *ballersScore {
		return nil, apperr.New(apperr.ErrCodeValidation, "ties are not allowed")
	}

	g.RingersScore = *ringersScore
	g.BallersScore = *ballersScore
	g.Status = StatusCompleted
	return g.outcome(false), nil
}

// Revert reopens a completed game and returns the exact inverse of the deltas
// its Finalize applied.
func (g *Game) Revert(actorID int64) (*Outcome, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, err
	}
	if g.Status != StatusCompleted {
		return nil, apperr.New(apperr.ErrCodeDomainState, "Game must be completed")
	}
	if _, _, ok := g.Winner(); !ok {
		return nil, apperr.New(apperr.ErrCodeDomainState, "A game is marked as completed but has no winner. Ties are not allowed")
	}
	out := g.outcome(true)
	g.Status = StatusPending
	return out, nil
}

func (g *Game) outcome(negate bool) *Outcome {
	winner, loser, _ := g.Winner()
	out := &Outcome{
		Winner:      winner,
		Loser:       loser,
		WinnerDelta: ResultDelta(g.Format, true),
		LoserDelta:  ResultDelta(g.Format, false),
	}
	if negate {
		out.WinnerDelta = out.WinnerDelta.Negate()
		out.LoserDelta = out.LoserDelta.Negate()
	}
	for _, p := range g.TeamPlayers(winner) {
		out.WinnerMembers = append(out.WinnerMembers, p.MemberID)
	}
	for _, p := range g.TeamPlayers(loser) {
		out.LoserMembers = append(out.LoserMembers, p.MemberID)
	}
	return out
}
