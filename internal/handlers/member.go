package handlers

import (
	"net/http"

	"github.com/dimitrije/pickup-api/internal/middleware"
	"github.com/dimitrije/pickup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type MemberHandler struct {
	memberService MemberServiceInterface
}

func NewMemberHandler(memberService MemberServiceInterface) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) GetMe(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err, "failed to get member")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewMemberResponse(member))
}

func (h *MemberHandler) UpdateMe(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	member, err := h.memberService.UpdateName(c.Request.Context(), memberID, req.Name)
	if err != nil {
		respondError(c, err, "failed to update member")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewMemberResponse(member))
}

// Get renders another member's page from the caller's point of view.
func (h *MemberHandler) Get(c *drift.Context) {
	viewerID := middleware.GetMemberID(c)
	if viewerID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	memberID, ok := pathID(c, "id")
	if !ok {
		return
	}

	page, err := h.memberService.Page(c.Request.Context(), viewerID, memberID)
	if err != nil {
		respondError(c, err, "failed to get member")
		return
	}

	_ = c.JSON(http.StatusOK, page)
}

func (h *MemberHandler) List(c *drift.Context) {
	members, err := h.memberService.ListMembers(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list members")
		return
	}

	_ = c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) ListFriends(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	overview, err := h.memberService.ListFriends(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err, "failed to list friends")
		return
	}

	_ = c.JSON(http.StatusOK, overview)
}

func (h *MemberHandler) SendFriendRequest(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.FriendRequestRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.FriendID == "" {
		c.BadRequest("friend_id is required")
		return
	}

	receiver, err := h.memberService.SendFriendRequest(c.Request.Context(), memberID, req.FriendID)
	if err != nil {
		respondError(c, err, "failed to send friend request")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.FriendRequestResponse{
		Message:  "Friend request sent to " + receiver.Name,
		Receiver: *receiver,
	})
}

// friendAction runs one of the id-addressed friend operations for the caller
// and the member named by the :memberId path parameter.
func (h *MemberHandler) friendAction(c *drift.Context, fallback, done string, op func(memberID, otherID int64) error) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	otherID, ok := pathID(c, "memberId")
	if !ok {
		return
	}

	if err := op(memberID, otherID); err != nil {
		respondError(c, err, fallback)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: done})
}

func (h *MemberHandler) AcceptFriendRequest(c *drift.Context) {
	h.friendAction(c, "failed to accept friend request", "Friend request accepted", func(memberID, senderID int64) error {
		return h.memberService.AcceptFriendRequest(c.Request.Context(), memberID, senderID)
	})
}

func (h *MemberHandler) RejectFriendRequest(c *drift.Context) {
	h.friendAction(c, "failed to reject friend request", "Friend request declined", func(memberID, senderID int64) error {
		return h.memberService.RejectFriendRequest(c.Request.Context(), memberID, senderID)
	})
}

func (h *MemberHandler) CancelFriendRequest(c *drift.Context) {
	h.friendAction(c, "failed to cancel friend request", "Friend request rescinded", func(memberID, receiverID int64) error {
		return h.memberService.CancelFriendRequest(c.Request.Context(), memberID, receiverID)
	})
}

func (h *MemberHandler) RemoveFriend(c *drift.Context) {
	h.friendAction(c, "failed to remove friend", "Friend removed", func(memberID, friendID int64) error {
		return h.memberService.RemoveFriend(c.Request.Context(), memberID, friendID)
	})
}
