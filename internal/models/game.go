package models

import (
	"time"

	"github.com/dimitrije/pickup-api/internal/pickup"
)

// GameSummary is a game as shown in lists.
type GameSummary struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	OwnerName string            `json:"owner_name"`
	Format    int               `json:"format"`
	Location  string            `json:"location"`
	Date      time.Time         `json:"date"`
	JoinCode  string            `json:"join_code"`
	Status    pickup.GameStatus `json:"status"`
}

// MemberGames buckets the games a member is involved in.
type MemberGames struct {
	Owned          []GameSummary `json:"owned"`
	OwnedUnupdated []GameSummary `json:"owned_unupdated"`
	Upcoming       []GameSummary `json:"upcoming"`
	Invited        []GameSummary `json:"invited"`
	Requesting     []GameSummary `json:"requesting"`
	Pending        []GameSummary `json:"pending"`
	Completed      []GameSummary `json:"completed"`
}
