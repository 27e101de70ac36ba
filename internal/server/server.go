package server

import (
	"os"
	"strings"
	"time"

	"anoa.com/habitloop/internal/handler"
	"anoa.com/habitloop/internal/middleware"
	"anoa.com/habitloop/internal/repository"
	"anoa.com/habitloop/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	configRepo := repository.NewUserConfigRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	weeklyRepo := repository.NewWeeklyScheduleRepository(db)
	dateRepo := repository.NewDateScheduleRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)
	txManager := repository.NewTxManager(db)

	var searchSvc service.SearchService
	if meiliHost := os.Getenv("MEILISEARCH_HOST"); meiliHost != "" {
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(os.Getenv("MEILI_MASTER_KEY")))
		searchSvc = service.NewSearchService(meiliClient)
	}

	authSvc := service.NewAuthService(userRepo)
	authHandler := handler.NewAuthHandler(authSvc)

	configSvc := service.NewUserConfigService(configRepo)
	configHandler := handler.NewConfigHandler(configSvc)

	achievementSvc := service.NewAchievementService(achievementRepo, activityRepo, historyRepo, configSvc, service.SystemClock)
	achievementHandler := handler.NewAchievementHandler(achievementSvc)

	activitySvc := service.NewActivityService(activityRepo, historyRepo, todoRepo, configSvc, achievementSvc, searchSvc, redisClient, service.SystemClock)
	activityHandler := handler.NewActivityHandler(activitySvc, searchSvc)

	scheduleSvc := service.NewScheduleService(weeklyRepo, dateRepo, activityRepo, txManager)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)

	todoSvc := service.NewTodoService(todoRepo, weeklyRepo, dateRepo, configRepo, configSvc, activitySvc, achievementSvc, txManager, redisClient, service.SystemClock)
	todoHandler := handler.NewTodoHandler(todoSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware()

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Config routes
		protected.GET("/config", configHandler.GetConfig)
		protected.PUT("/config", configHandler.UpdateConfig)

		// Activity routes
		protected.POST("/activities", activityHandler.CreateActivity)
		protected.GET("/activities", activityHandler.GetActivities)
		protected.GET("/activities/search-token", activityHandler.GetSearchToken)
		protected.GET("/activities/:id", activityHandler.GetActivity)
		protected.PUT("/activities/:id", activityHandler.UpdateActivity)
		protected.DELETE("/activities/:id", activityHandler.DeleteActivity)
		protected.POST("/activities/:id/complete", activityHandler.CompleteActivity)
		protected.POST("/activities/:id/undo", activityHandler.UndoActivity)
		protected.GET("/activities/:id/history", activityHandler.GetHistory)

		// Schedule routes
		protected.POST("/schedule/weekly", scheduleHandler.AddWeeklyEntry)
		protected.GET("/schedule/weekly", scheduleHandler.GetWeeklyEntries)
		protected.DELETE("/schedule/weekly/:id", scheduleHandler.RemoveWeeklyEntry)
		protected.PUT("/schedule/weekly/reorder", scheduleHandler.ReorderWeekly)
		protected.POST("/schedule/dates", scheduleHandler.AddDateEntry)
		protected.GET("/schedule/dates", scheduleHandler.GetDateEntries)
		protected.DELETE("/schedule/dates/:id", scheduleHandler.RemoveDateEntry)
		protected.PUT("/schedule/dates/reorder", scheduleHandler.ReorderDate)

		// Todo routes
		protected.POST("/todos/populate", todoHandler.PopulateToday)
		protected.GET("/todos", todoHandler.GetTodos)
		protected.POST("/todos", todoHandler.AddTodo)
		protected.DELETE("/todos/:id", todoHandler.RemoveTodo)
		protected.POST("/todos/:id/complete", todoHandler.CompleteTodo)
		protected.PUT("/todos/reorder", todoHandler.ReorderTodos)

		// Achievement routes
		protected.POST("/achievements", achievementHandler.CreateAchievement)
		protected.GET("/achievements", achievementHandler.GetAchievements)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
