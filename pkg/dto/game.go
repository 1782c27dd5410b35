package dto

import (
	"encoding/json"
	"time"

	"github.com/dimitrije/pickup-api/internal/pickup"
)

// CreateGameRequest carries invited as raw JSON so a malformed list can be
// reported by field name.
type CreateGameRequest struct {
	Format   int             `json:"format"`
	Location string          `json:"location"`
	Date     string          `json:"date"`
	Invited  json.RawMessage `json:"invited,omitempty"`
}

type UpdateGameRequest struct {
	Format   int    `json:"format"`
	Location string `json:"location"`
	Date     string `json:"date"`
}

type InviteRequest struct {
	Invited json.RawMessage `json:"invited"`
}

type JoinRequest struct {
	JoinCode string `json:"join_code"`
}

type AssignTeamsRequest struct {
	Ringers json.RawMessage `json:"ringers"`
	Ballers json.RawMessage `json:"ballers"`
}

type ScoreRequest struct {
	RingersScore *int `json:"ringers_score"`
	BallersScore *int `json:"ballers_score"`
}

type PlayerResponse struct {
	ID       int64  `json:"id"`
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
}

type TeamResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Players []PlayerResponse `json:"players"`
}

type GameResponse struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	OwnerID      *int64           `json:"owner_id"`
	OwnerName    string           `json:"owner_name"`
	Format       int              `json:"format"`
	Location     string           `json:"location"`
	Date         time.Time        `json:"date"`
	JoinCode     string           `json:"join_code"`
	Status       string           `json:"status"`
	RingersScore int              `json:"ringers_score"`
	BallersScore int              `json:"ballers_score"`
	Winner       string           `json:"winner,omitempty"`
	Ringers      TeamResponse     `json:"ringers"`
	Ballers      TeamResponse     `json:"ballers"`
	Unassigned   []PlayerResponse `json:"unassigned"`
	Pending      []PlayerResponse `json:"pending"`
	Requesting   []PlayerResponse `json:"requesting"`
}

func NewPlayerResponse(p *pickup.Player) PlayerResponse {
	return PlayerResponse{ID: p.ID, MemberID: p.MemberID, Name: p.Name, Status: string(p.Status)}
}

func playerResponses(players []*pickup.Player) []PlayerResponse {
	out := make([]PlayerResponse, len(players))
	for i, p := range players {
		out[i] = NewPlayerResponse(p)
	}
	return out
}

func playerNames(players []*pickup.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

func NewGameResponse(g *pickup.Game) GameResponse {
	resp := GameResponse{
		ID:           g.ID,
		Title:        g.Title(),
		OwnerID:      g.OwnerID,
		OwnerName:    g.OwnerName,
		Format:       g.Format,
		Location:     g.Location,
		Date:         g.Date,
		JoinCode:     g.JoinCode,
		Status:       g.Status.String(),
		RingersScore: g.RingersScore,
		BallersScore: g.BallersScore,
		Ringers: TeamResponse{
			ID:      g.Ringers.ID,
			Name:    g.Ringers.Name(),
			Players: playerResponses(g.TeamPlayers(g.Ringers)),
		},
		Ballers: TeamResponse{
			ID:      g.Ballers.ID,
			Name:    g.Ballers.Name(),
			Players: playerResponses(g.TeamPlayers(g.Ballers)),
		},
		Unassigned: playerResponses(g.Partition(pickup.PlayerUnassigned)),
		Pending:    playerResponses(g.Partition(pickup.PlayerPending)),
		Requesting: playerResponses(g.Partition(pickup.PlayerRequesting)),
	}
	if g.Status == pickup.StatusCompleted {
		resp.Winner = g.WinnerName()
	}
	return resp
}

type InviteResponse struct {
	Game           GameResponse `json:"game"`
	Invited        []string     `json:"invited"`
	AlreadyInvited []string     `json:"already_invited"`
	InvalidIDs     []int64      `json:"invalid_ids"`
}

func NewInviteResponse(g *pickup.Game, res *pickup.InviteResult) InviteResponse {
	return InviteResponse{
		Game:           NewGameResponse(g),
		Invited:        playerNames(res.Invited),
		AlreadyInvited: nonNilStrings(res.AlreadyInvited),
		InvalidIDs:     nonNilIDs(res.InvalidIDs),
	}
}

type AssignTeamsResponse struct {
	Game       GameResponse `json:"game"`
	Ringers    []string     `json:"ringers"`
	Ballers    []string     `json:"ballers"`
	InvalidIDs []int64      `json:"invalid_ids"`
}

func NewAssignTeamsResponse(g *pickup.Game, res *pickup.Assignment) AssignTeamsResponse {
	return AssignTeamsResponse{
		Game:       NewGameResponse(g),
		Ringers:    playerNames(res.Ringers),
		Ballers:    playerNames(res.Ballers),
		InvalidIDs: nonNilIDs(res.InvalidIDs),
	}
}

type TeamChangeResponse struct {
	Game    GameResponse   `json:"game"`
	Player  PlayerResponse `json:"player"`
	Changed bool           `json:"changed"`
	From    string         `json:"from,omitempty"`
	To      string         `json:"to,omitempty"`
	Note    string         `json:"note,omitempty"`
}

func NewTeamChangeResponse(g *pickup.Game, change *pickup.TeamChange) TeamChangeResponse {
	resp := TeamChangeResponse{
		Game:    NewGameResponse(g),
		Player:  NewPlayerResponse(change.Player),
		Changed: change.Changed,
		Note:    change.Note,
	}
	if change.Changed {
		resp.From = change.From.Name()
	}
	if change.To != nil {
		resp.To = change.To.Name()
	}
	return resp
}

type PlayerActionResponse struct {
	Game   GameResponse   `json:"game"`
	Player PlayerResponse `json:"player"`
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilIDs(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
