package handlers

import (
	"net/http"
	"time"

	"github.com/dimitrije/pickup-api/internal/middleware"
	"github.com/dimitrije/pickup-api/internal/models"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/dimitrije/pickup-api/pkg/dto"
	"github.com/dimitrije/pickup-api/pkg/logger"
	"github.com/m1z23r/drift/pkg/drift"
)

type AuthHandler struct {
	memberService MemberServiceInterface
	tokenService  TokenServiceInterface
	jwtService    JWTServiceInterface
}

func NewAuthHandler(
	memberService MemberServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	return &AuthHandler{
		memberService: memberService,
		tokenService:  tokenService,
		jwtService:    jwtService,
	}
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	member, err := h.memberService.Register(c.Request.Context(), req.Username, req.Password, req.Name)
	if err != nil {
		respondError(c, err, "failed to register member")
		return
	}

	h.issueTokens(c, http.StatusCreated, member)
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		c.BadRequest("username and password are required")
		return
	}

	member, err := h.memberService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	h.issueTokens(c, http.StatusOK, member)
}

func (h *AuthHandler) issueTokens(c *drift.Context, status int, member *models.Member) {
	pair, err := h.storeTokenPair(c, member)
	if err != nil {
		logger.Error("failed to issue tokens", "member_id", member.ID, "error", err)
		c.InternalServerError("failed to generate tokens")
		return
	}

	_ = c.JSON(status, dto.AuthResponse{
		Member:        dto.NewMemberResponse(member),
		TokenResponse: *pair,
	})
}

func (h *AuthHandler) storeTokenPair(c *drift.Context, member *models.Member) (*dto.TokenResponse, error) {
	tokenPair, err := h.jwtService.GenerateTokenPair(member.ID, member.Username)
	if err != nil {
		return nil, err
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(c.Request.Context(), member.ID, tokenHash, expiresAt); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	memberID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	tokenHash := services.HashToken(req.RefreshToken)
	ctx := c.Request.Context()

	storedMemberID, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || storedMemberID != memberID {
		c.Unauthorized("refresh token not found or expired")
		return
	}

	member, err := h.memberService.GetByID(ctx, memberID)
	if err != nil {
		c.Unauthorized("member not found")
		return
	}

	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		c.InternalServerError("failed to revoke old token")
		return
	}

	pair, err := h.storeTokenPair(c, member)
	if err != nil {
		logger.Error("failed to rotate tokens", "member_id", member.ID, "error", err)
		c.InternalServerError("failed to generate tokens")
		return
	}

	_ = c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		_ = h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash)
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	memberID := middleware.GetMemberID(c)
	if memberID == 0 {
		c.Unauthorized("not authenticated")
		return
	}

	if err := h.tokenService.RevokeAllMemberTokens(c.Request.Context(), memberID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "all sessions logged out"})
}
