package main

import (
	"net/http"

	"github.com/dimitrije/pickup-api/internal/handlers"
	authmw "github.com/dimitrije/pickup-api/internal/middleware"
	"github.com/dimitrije/pickup-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
)

type routeHandlers struct {
	auth         *handlers.AuthHandler
	member       *handlers.MemberHandler
	game         *handlers.GameHandler
	score        *handlers.ScoreHandler
	notification *handlers.NotificationHandler
}

// registerRoutes mounts the API under /api/v1. A static segment never shares a
// parent with a :param segment, since drift rejects that at registration.
func registerRoutes(app *drift.Engine, jwtService *services.JWTService, h routeHandlers) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.auth.Register)
	auth.Post("/login", h.auth.Login)
	auth.Post("/refresh", h.auth.RefreshToken)
	auth.Post("/logout", h.auth.Logout)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout-all", h.auth.LogoutAll)

	protected.Get("/me", h.member.GetMe)
	protected.Patch("/me", h.member.UpdateMe)
	protected.Get("/me/friends", h.member.ListFriends)
	protected.Delete("/me/friends/:memberId", h.member.RemoveFriend)
	protected.Get("/me/games", h.game.ListMine)

	protected.Get("/members", h.member.List)
	protected.Get("/members/:id", h.member.Get)

	protected.Post("/friends/requests", h.member.SendFriendRequest)
	protected.Post("/friends/requests/:memberId/accept", h.member.AcceptFriendRequest)
	protected.Post("/friends/requests/:memberId/reject", h.member.RejectFriendRequest)
	protected.Delete("/friends/requests/:memberId", h.member.CancelFriendRequest)

	protected.Post("/join", h.game.Join)

	protected.Get("/games", h.game.List)
	protected.Post("/games", h.game.Create)
	protected.Get("/games/:id", h.game.Get)
	protected.Patch("/games/:id", h.game.Update)
	protected.Delete("/games/:id", h.game.Delete)
	protected.Post("/games/:id/invites", h.game.Invite)
	protected.Post("/games/:id/invite/accept", h.game.AcceptInvite)
	protected.Post("/games/:id/invite/reject", h.game.RejectInvite)
	protected.Post("/games/:id/requests/:playerId/accept", h.game.AcceptJoinRequest)
	protected.Post("/games/:id/requests/:playerId/reject", h.game.RejectJoinRequest)
	protected.Post("/games/:id/teams", h.game.AssignTeams)
	protected.Post("/games/:id/players/:playerId/reassign", h.game.ReassignTeam)
	protected.Post("/games/:id/players/:playerId/unassign", h.game.RemoveFromTeam)
	protected.Delete("/games/:id/players/:playerId", h.game.RemovePlayer)
	protected.Post("/games/:id/leave", h.game.Leave)
	protected.Post("/games/:id/score", h.score.Finalize)
	protected.Post("/games/:id/score/revert", h.score.Revert)

	protected.Get("/notifications", h.notification.Feed)
	protected.Get("/notifications/all", h.notification.List)
	protected.Delete("/notifications", h.notification.ClearAll)
	protected.Delete("/notifications/games/:id", h.notification.ClearGame)
	protected.Delete("/notifications/friends", h.notification.ClearFriends)
}
