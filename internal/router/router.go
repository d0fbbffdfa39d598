package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/auth"
	"github.com/thanhng/workchat/internal/handler"
	"github.com/thanhng/workchat/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Health        *handler.HealthHandler
	Auth          *handler.AuthHandler
	Workspaces    *handler.WorkspaceHandler
	Channels      *handler.ChannelHandler
	Conversations *handler.ConversationHandler
	Messages      *handler.MessageHandler
}

// RegisterPublic registers endpoints that need no token: liveness plus
// the auth flows that create or recover credentials.  The rate limiter
// guards the credential endpoints against brute force.
func RegisterPublic(e *echo.Echo, h Handlers, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health.Check)

	g := e.Group("/v1/auth", limiter)
	g.POST("/register", h.Auth.Register)
	g.POST("/confirm-email", h.Auth.ConfirmEmail)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/forgot-password", h.Auth.ForgotPassword)
	g.POST("/reset-password", h.Auth.ResetPassword)
}

// RegisterAPI registers the authenticated endpoints under /v1.  Every
// route requires a valid access token; workspace-level authorization is
// resolved per operation in the services.
func RegisterAPI(e *echo.Echo, h Handlers, issuer *auth.Issuer) {
	g := e.Group("/v1", middleware.JWTAuth(issuer))

	// ---- Session ----
	g.POST("/auth/logout", h.Auth.Logout)
	g.GET("/auth/me", h.Auth.Me)

	// ---- Workspaces ----
	g.POST("/workspaces", h.Workspaces.Create)
	g.GET("/workspaces", h.Workspaces.List)
	g.GET("/workspaces/:id", h.Workspaces.Info)
	g.PATCH("/workspaces/:id", h.Workspaces.Rename)
	g.DELETE("/workspaces/:id", h.Workspaces.Delete)
	g.POST("/workspaces/join", h.Workspaces.Join)
	g.POST("/workspaces/:id/join-code", h.Workspaces.NewJoinCode)
	g.POST("/workspaces/:id/leave", h.Workspaces.Leave)
	g.POST("/workspaces/:id/transfer-admin", h.Workspaces.TransferAdmin)
	g.GET("/workspaces/:id/members", h.Workspaces.Members)
	g.POST("/workspaces/:id/members", h.Workspaces.AddMembers)

	// ---- Channels ----
	g.POST("/workspaces/:id/channels", h.Channels.Create)
	g.GET("/workspaces/:id/channels", h.Channels.ListPublic)
	g.GET("/channels/:id", h.Channels.Get)
	g.PATCH("/channels/:id", h.Channels.Update)
	g.DELETE("/channels/:id", h.Channels.Delete)
	g.POST("/channels/:id/members", h.Channels.AddMember)
	g.DELETE("/channels/:id/members/:memberId", h.Channels.RemoveMember)
	g.GET("/channels/:id/messages", h.Channels.Messages)

	// ---- Conversations ----
	g.POST("/workspaces/:id/conversations", h.Conversations.Create)
	g.GET("/workspaces/:id/conversations", h.Conversations.List)
	g.GET("/conversations/:id", h.Conversations.Get)
	g.DELETE("/conversations/:id", h.Conversations.Delete)
	g.GET("/conversations/:id/participants", h.Conversations.Participants)
	g.POST("/conversations/:id/participants", h.Conversations.AddParticipant)
	g.DELETE("/conversations/:id/participants/:memberId", h.Conversations.RemoveParticipant)
	g.GET("/conversations/:id/messages", h.Conversations.Messages)

	// ---- Messages ----
	g.POST("/messages", h.Messages.Create)
	g.GET("/messages/:id", h.Messages.Get)
	g.PATCH("/messages/:id", h.Messages.Update)
	g.DELETE("/messages/:id", h.Messages.Delete)
}
