package handlers

import (
	"net/http"

	"github.com/dimitrije/pickup-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type ScoreHandler struct {
	scoreService ScoreServiceInterface
}

func NewScoreHandler(scoreService ScoreServiceInterface) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

func (h *ScoreHandler) Finalize(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	var req dto.ScoreRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	game, err := h.scoreService.Finalize(c.Request.Context(), memberID, gameID, req.RingersScore, req.BallersScore)
	if err != nil {
		respondError(c, err, "failed to finalize score")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}

func (h *ScoreHandler) Revert(c *drift.Context) {
	memberID, gameID, ok := gameActor(c)
	if !ok {
		return
	}

	game, err := h.scoreService.Revert(c.Request.Context(), memberID, gameID)
	if err != nil {
		respondError(c, err, "failed to revert score")
		return
	}

	_ = c.JSON(http.StatusOK, dto.NewGameResponse(game))
}
