package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"internbot/config"
	"internbot/controllers"
	"internbot/middleware"
	"internbot/services"
	"internbot/store"
	"internbot/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment")
	}

	cfg := config.GetAppConfig()
	utils.InitLogger(cfg.Environment)

	session := services.NewSession(cfg)
	screenshots := services.NewScreenshotService(cfg.ScreenshotDir)
	authService := services.NewAuthService(cfg, session)
	searchService := services.NewSearchService(cfg, session)
	applyService := services.NewApplyService(cfg, session, screenshots)
	generator := services.NewAnswerGenerator(cfg.GeminiAPIKey)
	logs := services.NewLogBuffer()

	var history *store.Store
	if s, err := store.Open(cfg.HistoryDB); err != nil {
		log.Warn().Err(err).Msg("history store unavailable, outcomes will not persist")
	} else {
		history = s
		defer history.Close()
	}

	var recorder services.HistoryRecorder
	if history != nil {
		recorder = history
	}
	bot := services.NewBot(searchService, applyService, logs, recorder)

	authController := controllers.NewAuthController(authService, session)
	searchController := controllers.NewSearchController(searchService)
	applyController := controllers.NewApplyController(applyService)
	var lister controllers.HistoryLister
	if history != nil {
		lister = history
	}
	botController := controllers.NewBotController(bot, logs, lister)
	aiController := controllers.NewAIController(generator)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.Default())

	authLimiter := middleware.NewRateLimiter(5)
	aiLimiter := middleware.NewRateLimiter(10)
	generalLimiter := middleware.NewRateLimiter(60)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := r.Group("/api", generalLimiter.Limit())
	{
		api.POST("/verify-credentials", authLimiter.Limit(), authController.VerifyCredentials)
		api.GET("/status", authController.Status)
		api.POST("/logout", authController.Logout)

		api.POST("/search-internships", searchController.SearchInternships)
		api.POST("/apply-internship", applyController.ApplyInternship)

		api.POST("/bot/start", botController.Start)
		api.POST("/bot/stop", botController.Stop)
		api.GET("/bot/jobs", botController.Jobs)
		api.GET("/bot/logs", botController.Logs)
		api.GET("/bot/history", botController.History)

		api.POST("/ai/generate-answer", aiLimiter.Limit(), aiController.GenerateAnswer)
		api.POST("/ai/analyze-resume", aiLimiter.Limit(), aiController.AnalyzeResume)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("backend server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// The browser is an OS-level process; it must be torn down on
	// shutdown or it leaks.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down gracefully")
	bot.Stop()
	if err := session.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing browser session")
	}
	_ = srv.Close()
}
