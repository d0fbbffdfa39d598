package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/thanhng/workchat/internal/auth"
	"github.com/thanhng/workchat/internal/config"
	"github.com/thanhng/workchat/internal/database"
	"github.com/thanhng/workchat/internal/handler"
	"github.com/thanhng/workchat/internal/middleware"
	"github.com/thanhng/workchat/internal/queue"
	"github.com/thanhng/workchat/internal/repository"
	"github.com/thanhng/workchat/internal/router"
	"github.com/thanhng/workchat/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories.
	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	workspaces := repository.NewWorkspaceRepo(db)
	members := repository.NewMemberRepo(db)
	channels := repository.NewChannelRepo(db)
	conversations := repository.NewConversationRepo(db)
	messages := repository.NewMessageRepo(db)

	// Services.
	issuer := auth.NewIssuer(cfg)
	sessionMgr := service.NewSessionManager(sessions)
	notifier := queue.NewPublisher()
	authSvc := service.NewAuthService(users, sessionMgr, issuer, notifier, cfg.BcryptCost)
	access := service.NewAccess(members, channels, conversations)
	workspaceSvc := service.NewWorkspaceService(workspaces, members, access)
	channelSvc := service.NewChannelService(channels, messages, access)
	conversationSvc := service.NewConversationService(conversations, messages, access)
	messageSvc := service.NewMessageService(messages, access)

	// Email delivery worker; reconnects on broker failure.
	go queue.StartEmailConsumer()

	e := echo.New()
	e.HideBanner = true

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	h := router.Handlers{
		Health:        handler.NewHealthHandler(db),
		Auth:          handler.NewAuthHandler(authSvc),
		Workspaces:    handler.NewWorkspaceHandler(workspaceSvc),
		Channels:      handler.NewChannelHandler(channelSvc),
		Conversations: handler.NewConversationHandler(conversationSvc),
		Messages:      handler.NewMessageHandler(messageSvc),
	}
	router.RegisterPublic(e, h, limiter)
	router.RegisterAPI(e, h, issuer)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
