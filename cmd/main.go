package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/minhngocbui/ctfzone/config"
	"github.com/minhngocbui/ctfzone/database"
	_ "github.com/minhngocbui/ctfzone/docs" // Swagger docs
	"github.com/minhngocbui/ctfzone/internal/controller"
	adminctrl "github.com/minhngocbui/ctfzone/internal/controller/admin"
	playerctrl "github.com/minhngocbui/ctfzone/internal/controller/player"
	teamctrl "github.com/minhngocbui/ctfzone/internal/controller/team"
	"github.com/minhngocbui/ctfzone/internal/logger"
	"github.com/minhngocbui/ctfzone/internal/middleware"
	"github.com/minhngocbui/ctfzone/internal/model"
	"github.com/minhngocbui/ctfzone/internal/repository"
	"github.com/minhngocbui/ctfzone/internal/service"
)

// @title Zone CTF API
// @version 1.0
// @description Team-based zone capture exercise backend: one-time access codes, timed zone attempts, capped team sessions and a public leaderboard.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey SessionToken
// @in header
// @name X-Session-Token
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewTeamRepository,
			repository.NewPlayerRepository,
			repository.NewTeamUserRepository,
			repository.NewZoneRepository,
			repository.NewAccessCodeRepository,
			repository.NewAttemptRepository,
			repository.NewScoreRepository,
			repository.NewSessionRepository,
		),

		// Services
		fx.Provide(
			service.NewZoneAccessService,
			service.NewAttemptService,
			service.NewSessionService,
			service.NewScoreboardService,
			service.NewTeamService,
			service.NewCodeMintService,
			service.NewZoneBoardService,
			service.NewSessionJanitor,
		),

		// Controllers
		fx.Provide(
			playerctrl.NewPlayerController,
			teamctrl.NewTeamController,
			adminctrl.NewAdminController,
			controller.NewScoreboardController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartSessionJanitor),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sessionSvc service.SessionService,
	playerCtrl *playerctrl.PlayerController,
	teamCtrl *teamctrl.TeamController,
	adminCtrl *adminctrl.AdminController,
	scoreboardCtrl *controller.ScoreboardController,
) {
	api := router.Group("/api/v1")
	{
		// Player entry: the access code itself is the credential.
		api.POST("/enter", playerCtrl.RedeemCode)
		api.GET("/attempts/:attempt_id/play", playerCtrl.PlayZone)
		api.POST("/attempts/:attempt_id/complete", playerCtrl.CompleteAttempt)

		// Public scoreboard
		api.GET("/leaderboard", scoreboardCtrl.GetLeaderboard)
		api.GET("/timeline", scoreboardCtrl.GetTimeline)

		// Team console
		api.POST("/login", teamCtrl.Login)

		authed := api.Group("")
		authed.Use(middleware.RequireSession(sessionSvc))
		{
			authed.POST("/logout", teamCtrl.Logout)
			authed.GET("/zones", teamCtrl.GetZoneBoard)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/teams", adminCtrl.CreateTeam)
			admin.GET("/teams", adminCtrl.ListTeams)
			admin.PUT("/teams/:team_id", adminCtrl.RenameTeam)
			admin.POST("/roster/import", adminCtrl.ImportRoster)
			admin.POST("/zones", adminCtrl.CreateZone)
			admin.PUT("/zones/:zone_id/content", adminCtrl.UpsertZoneContent)
			admin.POST("/codes", adminCtrl.MintCodes)
			admin.GET("/teams/:team_id/codes", adminCtrl.ListTeamCodes)
			admin.PUT("/teams/:team_id/score", adminCtrl.SetZonePoints)
			admin.PUT("/teams/:team_id/credit", adminCtrl.SetCredit)
			admin.POST("/teams/:team_id/force-exit", adminCtrl.ForceExitTeam)
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Zone CTF API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func StartSessionJanitor(lc fx.Lifecycle, janitor *service.SessionJanitor) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return janitor.Start()
		},
		OnStop: func(ctx context.Context) error {
			return janitor.Stop()
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.TeamUser{},
		&model.Team{},
		&model.Player{},
		&model.TeamSession{},
		&model.Zone{},
		&model.ZoneContent{},
		&model.AccessCode{},
		&model.Attempt{},
		&model.Score{},
		&model.ScoreEntry{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
