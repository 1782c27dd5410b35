package handlers

import (
	"net/http"

	"github.com/dimitrije/pickup-api/internal/middleware"
	"github.com/dimitrije/pickup-api/internal/pickup"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type GameHandler struct {
	gameService GameServiceInterface
}

func NewGameHandler(gameService GameServiceInterface) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// gameActor resolves the caller and the :id game of a game-scoped route.
func gameActor(c *drift.Context) (memberID, gameID int64, ok bool) {
	memberID = middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return 0, 0, false
	}
	gameID, ok = pathID(c, "id")
	return memberID, gameID, ok
}

func (h *GameHandler) List(c *drift.Context) {
	games, err := h.gameService.ListGames(c.Request.Context())
	if err != nil {
		respondError(c, err, "failed to list games")
		return
	}

	_ = c.JSON(http.StatusOK, games)
}

func (h *GameHandler) ListMine(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	games, err := h.gameService.ListMemberGames(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, err, "failed to list games")
		return
	}

	_ = c.JSON(http.StatusOK, games)
}

func (h *GameHandler) Create(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	date, err := pickup.ParseDate(req.Date)
	if err != nil {
		respondError(c, err, "failed to create game")
		return
	}
	invited, err := idList(req.Invited, "invited")
	if err != nil {
		respondError(c, err, "failed to create game")
		return
	}

	game, res, err := h.gameService.CreateGame(c.Request.Context(), memberID, services.CreateGameInput{
		Format:   req.Format,
		Location: req.Location,
		Date:     date,
		Invited:  invited,
	})
	if err != nil {
		respondError(c, err, "failed to create game")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.NewInviteResponse(game, res))
}

func (h *GameHandler) Get(c *drift.Context) {
	_, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	game, err := h.gameService.GetGame(c.Request.Context(), gameID)
	if err != nil {
		respondError(c, err, "failed to get game")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

func (h *GameHandler) Update(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	var req dto.UpdateGameRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	date, err := pickup.ParseDate(req.Date)
	if err != nil {
		respondError(c, err, "failed to update game")
		return
	}

	game, err := h.gameService.UpdateDetails(c.Request.Context(), memberID, gameID, req.Format, req.Location, date)
	if err != nil {
		respondError(c, err, "failed to update game")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

func (h *GameHandler) Delete(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	if err := h.gameService.DeleteGame(c.Request.Context(), memberID, gameID); err != nil {
		respondError(c, err, "failed to delete game")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "game deleted"})
}

func (h *GameHandler) Invite(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	invited, err := idList(req.Invited, "invited")
	if err != nil {
		respondError(c, err, "failed to invite players")
		return
	}

	game, res, err := h.gameService.Invite(c.Request.Context(), memberID, gameID, invited)
	if err != nil {
		respondError(c, err, "failed to invite players")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewInviteResponse(game, res))
}

func (h *GameHandler) AcceptInvite(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	game, err := h.gameService.AcceptInvite(c.Request.Context(), memberID, gameID)
	if err != nil {
		respondError(c, err, "failed to accept invite")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

func (h *GameHandler) RejectInvite(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	game, err := h.gameService.RejectInvite(c.Request.Context(), memberID, gameID)
	if err != nil {
		respondError(c, err, "failed to reject invite")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

func (h *GameHandler) Join(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.JoinRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.JoinCode == "" {
		c.BadRequest("join_code is required")
		return
	}

	game, err := h.gameService.RequestJoin(c.Request.Context(), memberID, req.JoinCode)
	if err != nil {
		respondError(c, err, "failed to request to join")
		return
	}

	_ = c.JSON(http.StatusCreated, dto.NewGameResponse(game))
}

type playerOp func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error)

// playerAction runs an owner operation addressed at the :playerId player.
func (h *GameHandler) playerAction(c *drift.Context, fallback string, op playerOp) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "playerId")
	if !ok {
		return
	}

	game, player, err := op(memberID, gameID, playerID)
	if err != nil {
		respondError(c, err, fallback)
		return
	}

	_ = c.JSON(http.StatusOK, dto.PlayerActionResponse{
		Game:   dto.NewGameResponse(game),
		Player: dto.NewPlayerResponse(player),
	})
}

func (h *GameHandler) AcceptJoinRequest(c *drift.Context) {
	h.playerAction(c, "failed to accept join request", func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
		return h.gameService.AcceptJoinRequest(c.Request.Context(), actorID, gameID, playerID)
	})
}

func (h *GameHandler) RejectJoinRequest(c *drift.Context) {
	h.playerAction(c, "failed to reject join request", func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
		return h.gameService.RejectJoinRequest(c.Request.Context(), actorID, gameID, playerID)
	})
}

func (h *GameHandler) RemovePlayer(c *drift.Context) {
	h.playerAction(c, "failed to remove player", func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.Player, error) {
		return h.gameService.RemoveByOwner(c.Request.Context(), actorID, gameID, playerID)
	})
}

func (h *GameHandler) AssignTeams(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	var req dto.AssignTeamsRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ringers, err := idList(req.Ringers, "ringers")
	if err != nil {
		respondError(c, err, "failed to assign teams")
		return
	}
	ballers, err := idList(req.Ballers, "ballers")
	if err != nil {
		respondError(c, err, "failed to assign teams")
		return
	}

	game, res, err := h.gameService.AssignTeams(c.Request.Context(), memberID, gameID, ringers, ballers)
	if err != nil {
		respondError(c, err, "failed to assign teams")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewAssignTeamsResponse(game, res))
}

type teamOp func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error)

func (h *GameHandler) teamAction(c *drift.Context, fallback string, op teamOp) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "playerId")
	if !ok {
		return
	}

	game, change, err := op(memberID, gameID, playerID)
	if err != nil {
		respondError(c, err, fallback)
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewTeamChangeResponse(game, change))
}

func (h *GameHandler) ReassignTeam(c *drift.Context) {
	h.teamAction(c, "failed to reassign player", func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
		return h.gameService.ReassignTeam(c.Request.Context(), actorID, gameID, playerID)
	})
}

func (h *GameHandler) RemoveFromTeam(c *drift.Context) {
	h.teamAction(c, "failed to unassign player", func(actorID, gameID, playerID int64) (*pickup.Game, *pickup.TeamChange, error) {
		return h.gameService.RemoveFromTeam(c.Request.Context(), actorID, gameID, playerID)
	})
}

func (h *GameHandler) Leave(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	game, err := h.gameService.RemoveBySelf(c.Request.Context(), memberID, gameID)
	if err != nil {
		respondError(c, err, "failed to leave game")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}
