// Package pickup holds the pickup game aggregate and the rules that govern
// how players move between the invite, request and team partitions of a game.
// Everything here is pure: callers load a Game, apply a transition, run
// Validate and persist the result inside their own transaction.
package pickup

import (
	"fmt"
	"time"
)

type GameStatus int

const (
	StatusPending   GameStatus = 1
	StatusCompleted GameStatus = 2
	StatusCanceled  GameStatus = 3
)

func (s GameStatus) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusCompleted:
		return "Completed"
	case StatusCanceled:
		return "Canceled"
	}
	return fmt.Sprintf("GameStatus(%d)", int(s))
}

func (s GameStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted || s == StatusCanceled
}

// MarshalText renders the status by name in JSON payloads.
func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameStatus) UnmarshalText(text []byte) error {
	for _, st := range []GameStatus{StatusPending, StatusCompleted, StatusCanceled} {
		if string(text) == st.String() {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

// PlayerStatus is the partition a player currently sits in.
type PlayerStatus string

const (
	PlayerPending    PlayerStatus = "pending"
	PlayerUnassigned PlayerStatus = "unassigned"
	PlayerAssigned   PlayerStatus = "assigned"
	PlayerRequesting PlayerStatus = "requesting"
)

// Partitions lists every player partition in display order.
var Partitions = []PlayerStatus{PlayerAssigned, PlayerUnassigned, PlayerPending, PlayerRequesting}

const (
	RingersName = "Ringers"
	BallersName = "Ballers"

	MaxLocationLength = 50
	MaxScore          = 32767
)

// ValidFormat reports whether f is a supported team size (2v2 through 5v5).
func ValidFormat(f int) bool {
	return f >= 2 && f <= 5
}

type Team struct {
	ID        int64 `json:"id"`
	IsRingers bool  `json:"is_ringers"`
}

func (t Team) Name() string {
	if t.IsRingers {
		return RingersName
	}
	return BallersName
}

type Player struct {
	ID       int64        `json:"id"`
	MemberID int64        `json:"member_id"`
	Name     string       `json:"name"`
	Status   PlayerStatus `json:"status"`
	TeamID   *int64       `json:"team_id,omitempty"`
}

// MemberRef is the slice of a member the engine needs to create players.
type MemberRef struct {
	ID   int64
	Name string
}

type Game struct {
	ID           int64
	OwnerID      *int64
	OwnerName    string
	Format       int
	Location     string
	Date         time.Time
	JoinCode     string
	Status       GameStatus
	RingersScore int
	BallersScore int
	Ringers      Team
	Ballers      Team
	Players      []*Player
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewGame builds a pending game owned by owner. Teams and join code are
// assigned when the game is persisted.
func NewGame(owner MemberRef, format int, location string, date time.Time) (*Game, error) {
	g := &Game{
		OwnerID:   &owner.ID,
		OwnerName: owner.Name,
		Status:    StatusPending,
		Ringers:   Team{IsRingers: true},
		Ballers:   Team{IsRingers: false},
	}
	if err := g.setDetails(format, location, date); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) Title() string {
	return fmt.Sprintf("Game at %s on %s UTC", g.Location, g.Date.UTC().Format("January 02, 2006 at 03:04 PM"))
}

func (g *Game) IsOwner(memberID int64) bool {
	return g.OwnerID != nil && *g.OwnerID == memberID
}

func (g *Game) PlayerByID(id int64) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) PlayerByMember(memberID int64) *Player {
	for _, p := range g.Players {
		if p.MemberID == memberID {
			return p
		}
	}
	return nil
}

// HasMember reports whether memberID is in all_members.
func (g *Game) HasMember(memberID int64) bool {
	return g.PlayerByMember(memberID) != nil
}

// Members returns the member ids of every player, mirroring all_players.
func (g *Game) Members() []int64 {
	ids := make([]int64, 0, len(g.Players))
	for _, p := range g.Players {
		ids = append(ids, p.MemberID)
	}
	return ids
}

func (g *Game) Partition(status PlayerStatus) []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) TeamPlayers(t Team) []*Player {
	var out []*Player
	for _, p := range g.Players {
		if p.TeamID != nil && *p.TeamID == t.ID {
			out = append(out, p)
		}
	}
	return out
}

// TeamOf returns the team a player is on, if any.
func (g *Game) TeamOf(p *Player) (Team, bool) {
	if p.TeamID == nil {
		return Team{}, false
	}
	switch *p.TeamID {
	case g.Ringers.ID:
		return g.Ringers, true
	case g.Ballers.ID:
		return g.Ballers, true
	}
	return Team{}, false
}

// Winner derives the winning and losing team from the stored scores.
// ok is false on a tie.
func (g *Game) Winner() (winner, loser Team, ok bool) {
	switch {
	case g.RingersScore > g.BallersScore:
		return g.Ringers, g.Ballers, true
	case g.BallersScore > g.RingersScore:
		return g.Ballers, g.Ringers, true
	}
	return Team{}, Team{}, false
}

// WinnerName is "Ringers", "Ballers" or "" for a game without a winner.
func (g *Game) WinnerName() string {
	w, _, ok := g.Winner()
	if !ok {
		return ""
	}
	return w.Name()
}

func (g *Game) removePlayer(target *Player) {
	kept := g.Players[:0]
	for _, p := range g.Players {
		if p != target {
			kept = append(kept, p)
		}
	}
	g.Players = kept
}
