package models

import "time"

type NotificationGame struct {
	ID        int64     `json:"id"`
	OwnerName string    `json:"owner_name"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
}

// Notification targets exactly one of Friend or Game.
type Notification struct {
	ID        int64             `json:"id"`
	Member    MemberSummary     `json:"member"`
	Friend    *MemberSummary    `json:"friend,omitempty"`
	Game      *NotificationGame `json:"game,omitempty"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"created_at"`
}

type GameNotifications struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerName string    `json:"owner_name"`
	Date      time.Time `json:"date"`
	Messages  []string  `json:"messages"`
}

type FriendNotification struct {
	ID      int64         `json:"id"`
	Member  MemberSummary `json:"member"`
	Friend  MemberSummary `json:"friend"`
	Message string        `json:"message"`
}

// NotificationFeed is a member's notifications grouped by scope.
type NotificationFeed struct {
	Games   []GameNotifications  `json:"games"`
	Friends []FriendNotification `json:"friends"`
}
