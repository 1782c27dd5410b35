package pickup

import (
	apperr "github.com/dimitrije/pickup-api/pkg/errors"
)

// Validate recomputes the partition and team invariants of g. It must pass
// before any partition change is written.
func (g *Game) Validate() error {
	if !ValidFormat(g.Format) {
		return apperr.Newf(apperr.ErrCodeValidation, "format must be one of 2, 3, 4 or 5, got %d", g.Format)
	}
	if !g.Status.Valid() {
		return apperr.Newf(apperr.ErrCodeValidation, "unknown game status %d", int(g.Status))
	}
	if g.Ringers.IsRingers == g.Ballers.IsRingers {
		return apperr.New(apperr.ErrCodeValidation, "a game must have exactly one Ringers and one Ballers team")
	}
	if g.Ringers.ID != 0 && g.Ringers.ID == g.Ballers.ID {
		return apperr.New(apperr.ErrCodeValidation, "Ringers and Ballers must be distinct teams")
	}

	partitions := make(map[PlayerStatus]map[*Player]struct{}, len(Partitions))
	for _, status := range Partitions {
		partitions[status] = make(map[*Player]struct{})
	}
	members := make(map[int64]struct{}, len(g.Players))
	ids := make(map[int64]struct{}, len(g.Players))

	for _, p := range g.Players {
		if bucket, ok := partitions[p.Status]; ok {
			bucket[p] = struct{}{}
		}
		if _, dup := members[p.MemberID]; dup {
			return apperr.New(apperr.ErrCodeValidation, "a member may only have one player in the same pickup game")
		}
		members[p.MemberID] = struct{}{}
		if p.ID != 0 {
			if _, dup := ids[p.ID]; dup {
				return apperr.New(apperr.ErrCodeValidation, "duplicate player in pickup game")
			}
			ids[p.ID] = struct{}{}
		}
	}

	union := 0
	for _, status := range Partitions {
		union += len(partitions[status])
	}
	if union != len(g.Players) {
		return apperr.New(apperr.ErrCodeValidation, "Assigned, unassigned, pending, and requesting players must sum up to all players")
	}
	for i, a := range Partitions {
		for _, b := range Partitions[i+1:] {
			for p := range partitions[a] {
				if _, overlap := partitions[b][p]; overlap {
					return apperr.Newf(apperr.ErrCodeValidation, "%s and %s players cannot overlap", a, b)
				}
			}
		}
	}

	onTeam := make(map[*Player]struct{})
	for _, t := range []Team{g.Ringers, g.Ballers} {
		for _, p := range g.TeamPlayers(t) {
			if _, twice := onTeam[p]; twice {
				return apperr.New(apperr.ErrCodeValidation, "A player may only belong to one team in the same pickup game")
			}
			onTeam[p] = struct{}{}
		}
	}
	for _, p := range g.Players {
		_, hasTeam := onTeam[p]
		if p.TeamID != nil && !hasTeam {
			return apperr.Newf(apperr.ErrCodeValidation, "%s is on a team outside this game", p.Name)
		}
		if (p.Status == PlayerAssigned) != hasTeam {
			return apperr.Newf(apperr.ErrCodeValidation, "%s must be on a team exactly when assigned", p.Name)
		}
	}
	return nil
}
