package pickup

import (
	"sort"
	"strings"
	"time"

	apperr "github.com/dimitrije/pickup-api/pkg/errors"
)

type InviteResult struct {
	Invited        []*Player
	AlreadyInvited []string
	InvalidIDs     []int64
}

type Assignment struct {
	Ringers    []*Player
	Ballers    []*Player
	InvalidIDs []int64
}

// TeamChange describes the outcome of a reassignment. Changed is false when
// the player was not on a team; Note then explains why nothing happened.
type TeamChange struct {
	Player  *Player
	From    Team
	To      *Team
	Changed bool
	Note    string
}

func (g *Game) requireOwner(actorID int64) error {
	if !g.IsOwner(actorID) {
		return apperr.New(apperr.ErrCodeForbidden, "You are not the owner of this pickup game")
	}
	return nil
}

func (g *Game) requirePending() error {
	if g.Status != StatusPending {
		return apperr.Newf(apperr.ErrCodeDomainState, "%s is %s; only pending games can change", g.Title(), strings.ToLower(g.Status.String()))
	}
	return nil
}

// Invite adds a pending player for every requested member that is known and
// not yet part of the game. known carries the members that exist in the store.
func (g *Game) Invite(actorID int64, requested []int64, known []MemberRef) (*InviteResult, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, err
	}
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	return g.invite(requested, known), nil
}

func (g *Game) invite(requested []int64, known []MemberRef) *InviteResult {
	byID := make(map[int64]MemberRef, len(known))
	for _, m := range known {
		byID[m.ID] = m
	}

	res := &InviteResult{}
	seen := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		m, ok := byID[id]
		if !ok {
			res.InvalidIDs = append(res.InvalidIDs, id)
			continue
		}
		if existing := g.PlayerByMember(id); existing != nil {
			res.AlreadyInvited = append(res.AlreadyInvited, existing.Name)
			continue
		}
		p := &Player{MemberID: m.ID, Name: m.Name, Status: PlayerPending}
		g.Players = append(g.Players, p)
		res.Invited = append(res.Invited, p)
	}
	return res
}

func (g *Game) pendingPlayerFor(memberID int64) (*Player, error) {
	p := g.PlayerByMember(memberID)
	if p == nil {
		return nil, apperr.New(apperr.ErrCodeNotFound, "You were not invited to this game")
	}
	switch p.Status {
	case PlayerPending:
		return p, nil
	case PlayerRequesting:
		return nil, apperr.Newf(apperr.ErrCodeDomainState, "%s requested to join; the owner has not answered yet", p.Name)
	default:
		return nil, apperr.Newf(apperr.ErrCodeDomainState, "%s already accepted the invite", p.Name)
	}
}

func (g *Game) AcceptInvite(memberID int64) (*Player, error) {
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	p, err := g.pendingPlayerFor(memberID)
	if err != nil {
		return nil, err
	}
	p.Status = PlayerUnassigned
	return p, nil
}

func (g *Game) RejectInvite(memberID int64) (*Player, error) {
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	p, err := g.pendingPlayerFor(memberID)
	if err != nil {
		return nil, err
	}
	g.removePlayer(p)
	return p, nil
}

func (g *Game) RequestJoin(m MemberRef) (*Player, error) {
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	if g.HasMember(m.ID) {
		return nil, apperr.Newf(apperr.ErrCodeDomainState, "You already requested or were added to %s", g.Title())
	}
	p := &Player{MemberID: m.ID, Name: m.Name, Status: PlayerRequesting}
	g.Players = append(g.Players, p)
	return p, nil
}

func (g *Game) requestingPlayer(actorID, playerID int64) (*Player, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, err
	}
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil || p.Status != PlayerRequesting {
		return nil, apperr.New(apperr.ErrCodeNotFound, "Player not found")
	}
	return p, nil
}

func (g *Game) AcceptJoinRequest(actorID, playerID int64) (*Player, error) {
	p, err := g.requestingPlayer(actorID, playerID)
	if err != nil {
		return nil, err
	}
	p.Status = PlayerUnassigned
	return p, nil
}

func (g *Game) RejectJoinRequest(actorID, playerID int64) (*Player, error) {
	p, err := g.requestingPlayer(actorID, playerID)
	if err != nil {
		return nil, err
	}
	g.removePlayer(p)
	return p, nil
}

// AssignTeams moves unassigned players onto the named teams. Ids that are not
// unassigned players of this game, or that appear in both lists, are reported
// back and skipped; the rest are still moved. A non-owner may only place their
// own unassigned player, and every other id they name is reported as invalid.
func (g *Game) AssignTeams(actorID int64, ringersIDs, ballersIDs []int64) (*Assignment, error) {
	var self *Player
	if !g.IsOwner(actorID) {
		self = g.PlayerByMember(actorID)
		if self == nil || self.Status != PlayerUnassigned {
			return nil, apperr.New(apperr.ErrCodeForbidden, "Only the owner or unassigned players of this game can assign teams")
		}
	}
	if err := g.requirePending(); err != nil {
		return nil, err
	}

	ringersIDs = uniqueIDs(ringersIDs)
	ballersIDs = uniqueIDs(ballersIDs)
	inRingers := make(map[int64]struct{}, len(ringersIDs))
	for _, id := range ringersIDs {
		inRingers[id] = struct{}{}
	}
	inBallers := make(map[int64]struct{}, len(ballersIDs))
	for _, id := range ballersIDs {
		inBallers[id] = struct{}{}
	}

	invalid := make(map[int64]struct{})
	res := &Assignment{}
	assign := func(ids []int64, other map[int64]struct{}, team Team) []*Player {
		var added []*Player
		for _, id := range ids {
			p := g.PlayerByID(id)
			_, both := other[id]
			if both || p == nil || p.Status != PlayerUnassigned || (self != nil && p != self) {
				invalid[id] = struct{}{}
				continue
			}
			teamID := team.ID
			p.Status = PlayerAssigned
			p.TeamID = &teamID
			added = append(added, p)
		}
		return added
	}
	res.Ringers = assign(ringersIDs, inBallers, g.Ringers)
	res.Ballers = assign(ballersIDs, inRingers, g.Ballers)

	for id := range invalid {
		res.InvalidIDs = append(res.InvalidIDs, id)
	}
	sort.Slice(res.InvalidIDs, func(i, j int) bool { return res.InvalidIDs[i] < res.InvalidIDs[j] })
	return res, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (g *Game) assignedPlayer(actorID, playerID int64) (*Player, *TeamChange, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, nil, err
	}
	if err := g.requirePending(); err != nil {
		return nil, nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, nil, apperr.New(apperr.ErrCodeNotFound, "Player not found")
	}
	if p.Status != PlayerAssigned {
		return p, &TeamChange{Player: p, Note: p.Name + " was not previously assigned to a team"}, nil
	}
	return p, nil, nil
}

// ReassignTeam moves an assigned player to the other team.
func (g *Game) ReassignTeam(actorID, playerID int64) (*TeamChange, error) {
	p, note, err := g.assignedPlayer(actorID, playerID)
	if err != nil || note != nil {
		return note, err
	}
	from, _ := g.TeamOf(p)
	to := g.Ringers
	if from.IsRingers {
		to = g.Ballers
	}
	teamID := to.ID
	p.TeamID = &teamID
	return &TeamChange{Player: p, From: from, To: &to, Changed: true}, nil
}

// RemoveFromTeam takes an assigned player off its team and back to unassigned.
func (g *Game) RemoveFromTeam(actorID, playerID int64) (*TeamChange, error) {
	p, note, err := g.assignedPlayer(actorID, playerID)
	if err != nil || note != nil {
		return note, err
	}
	from, _ := g.TeamOf(p)
	p.TeamID = nil
	p.Status = PlayerUnassigned
	return &TeamChange{Player: p, From: from, Changed: true}, nil
}

func (g *Game) RemoveByOwner(actorID, playerID int64) (*Player, error) {
	if err := g.requireOwner(actorID); err != nil {
		return nil, err
	}
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	p := g.PlayerByID(playerID)
	if p == nil {
		return nil, apperr.New(apperr.ErrCodeNotFound, "Player not found")
	}
	g.removePlayer(p)
	return p, nil
}

func (g *Game) RemoveBySelf(memberID int64) (*Player, error) {
	if err := g.requirePending(); err != nil {
		return nil, err
	}
	p := g.PlayerByMember(memberID)
	if p == nil {
		return nil, apperr.New(apperr.ErrCodeNotFound, "You are not part of this game")
	}
	g.removePlayer(p)
	return p, nil
}

// UpdateDetails replaces format, location and date together.
func (g *Game) UpdateDetails(actorID int64, format int, location string, date time.Time) error {
	if err := g.requireOwner(actorID); err != nil {
		return err
	}
	if err := g.requirePending(); err != nil {
		return err
	}
	return g.setDetails(format, location, date)
}

func (g *Game) setDetails(format int, location string, date time.Time) error {
	location = strings.TrimSpace(location)
	if !ValidFormat(format) {
		return apperr.Newf(apperr.ErrCodeValidation, "format must be one of 2, 3, 4 or 5, got %d", format)
	}
	if location == "" {
		return apperr.New(apperr.ErrCodeValidation, "location is required")
	}
	if len(location) > MaxLocationLength {
		return apperr.Newf(apperr.ErrCodeValidation, "location must be at most %d characters", MaxLocationLength)
	}
	if date.IsZero() {
		return apperr.New(apperr.ErrCodeValidation, "date is required")
	}
	g.Format = format
	g.Location = location
	g.Date = date.UTC()
	return nil
}

func (g *Game) CanDelete(actorID int64) error {
	return g.requireOwner(actorID)
}
