package dto

import "github.com/dimitrije/pickup-api/internal/models"

type MemberResponse struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Name     string       `json:"name"`
	FriendID string       `json:"friend_id"`
	Stats    models.Stats `json:"stats"`
}

func NewMemberResponse(m *models.Member) MemberResponse {
	return MemberResponse{
		ID:       m.ID,
		Username: m.Username,
		Name:     m.Name,
		FriendID: m.FriendID,
		Stats:    m.Stats,
	}
}

type UpdateMemberRequest struct {
	Name string `json:"name"`
}

type FriendRequestRequest struct {
	FriendID string `json:"friend_id"`
}

type FriendRequestResponse struct {
	Message  string               `json:"message"`
	Receiver models.MemberSummary `json:"receiver"`
}
