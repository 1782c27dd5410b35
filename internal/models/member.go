package models

import "time"

// Stats are the lifetime and per-format win/loss counters of a member.
type Stats struct {
	PickupWins   int `json:"pickup_wins"`
	PickupLosses int `json:"pickup_losses"`
	Wins3v3      int `json:"wins_3v3"`
	Losses3v3    int `json:"losses_3v3"`
	Wins4v4      int `json:"wins_4v4"`
	Losses4v4    int `json:"losses_4v4"`
	Wins5v5      int `json:"wins_5v5"`
	Losses5v5    int `json:"losses_5v5"`
}

type Member struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	FriendID     string    `json:"friend_id"`
	Stats        Stats     `json:"stats"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MemberSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FriendCard is a friend as shown in friend lists.
type FriendCard struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FriendID string `json:"friend_id"`
	Stats    Stats  `json:"stats"`
}

// FriendRequest is one directed edge of the request relation.
type FriendRequest struct {
	Sender    MemberSummary `json:"sender"`
	Receiver  MemberSummary `json:"receiver"`
	CreatedAt time.Time     `json:"created_at"`
}

// MemberPage is how a member's profile looks to the viewer.
type MemberPage struct {
	Member          FriendCard      `json:"member"`
	IsSelf          bool            `json:"is_self"`
	IsFriend        bool            `json:"is_friend"`
	RequestSent     bool            `json:"request_sent"`
	RequestReceived bool            `json:"request_received"`
	MutualFriends   []MemberSummary `json:"mutual_friends"`
}

// FriendOverview is the viewer's friends together with both request indexes.
type FriendOverview struct {
	Friends  []FriendCard    `json:"friends"`
	Sent     []MemberSummary `json:"sent_requests"`
	Received []MemberSummary `json:"received_requests"`
}
