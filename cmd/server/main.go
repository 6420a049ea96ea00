package main

import (
	"log"

	"github.com/PuzzleTechHub/myus/internal/config"
	"github.com/PuzzleTechHub/myus/internal/database"
	"github.com/PuzzleTechHub/myus/internal/handlers"
	"github.com/PuzzleTechHub/myus/internal/metrics"
	"github.com/PuzzleTechHub/myus/internal/middleware"
	"github.com/PuzzleTechHub/myus/internal/services"
	"github.com/PuzzleTechHub/myus/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Myus Puzzle Hunt API
// @version         1.0
// @description     API for hosting puzzle hunts: progress-gated puzzles, team guessing and leaderboards
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	metrics.Register()

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	huntService := services.NewHuntService(db)
	progressService := services.NewProgressService(db)
	guessService := services.NewGuessService(db)
	leaderboardService := services.NewLeaderboardService(db)
	teamService := services.NewTeamService(db)

	authHandler := handlers.NewAuthHandler(authService)
	huntHandler := handlers.NewHuntHandler(huntService, progressService, teamService, leaderboardService)
	puzzleHandler := handlers.NewPuzzleHandler(huntService, progressService, teamService, guessService)
	guessHandler := handlers.NewGuessHandler(huntService, progressService, teamService, guessService, hub)
	teamHandler := handlers.NewTeamHandler(huntService, progressService, teamService, hub)
	wsHandler := handlers.NewWSHandler(hub)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/hunts/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		hunts := api.Group("/hunts")
		{
			hunts.GET("", huntHandler.ListHunts)
			hunts.POST("", middleware.JWTAuth(authService), huntHandler.CreateHunt)
			hunts.GET("/:id", middleware.OptionalJWTAuth(authService), huntHandler.GetHunt)
			hunts.PUT("/:id", middleware.JWTAuth(authService), huntHandler.UpdateHunt)
			hunts.GET("/:id/leaderboard", huntHandler.GetLeaderboard)

			hunts.POST("/:id/puzzles", middleware.JWTAuth(authService), puzzleHandler.CreatePuzzle)
			hunts.GET("/:id/puzzles/:puzzle_id", middleware.OptionalJWTAuth(authService), puzzleHandler.GetPuzzle)

			hunts.POST("/:id/teams", middleware.JWTAuth(authService), teamHandler.CreateTeam)
			hunts.GET("/:id/team", middleware.JWTAuth(authService), teamHandler.GetMyTeam)
			hunts.GET("/:id/invites", middleware.JWTAuth(authService), teamHandler.ListInvites)
			hunts.POST("/:id/invites/accept", middleware.JWTAuth(authService), teamHandler.AcceptInvite)
		}

		puzzles := api.Group("/puzzles")
		puzzles.Use(middleware.JWTAuth(authService))
		{
			puzzles.PUT("/:id", puzzleHandler.UpdatePuzzle)
			puzzles.GET("/:id/log", puzzleHandler.GetPuzzleLog)
			puzzles.POST("/:id/responses", puzzleHandler.AddGuessResponse)
			puzzles.POST("/:id/grants", puzzleHandler.GrantExtraGuesses)
			puzzles.POST("/:id/guesses", guessHandler.SubmitGuess)
		}

		teams := api.Group("/teams")
		teams.Use(middleware.JWTAuth(authService))
		{
			teams.POST("/:id/invite", teamHandler.InviteMember)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
