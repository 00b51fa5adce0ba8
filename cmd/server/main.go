package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskmaster-api/internal/config"
	"github.com/yukikurage/taskmaster-api/internal/constants"
	"github.com/yukikurage/taskmaster-api/internal/database"
	"github.com/yukikurage/taskmaster-api/internal/handlers"
	"github.com/yukikurage/taskmaster-api/internal/logger"
	"github.com/yukikurage/taskmaster-api/internal/middleware"
	"github.com/yukikurage/taskmaster-api/internal/repository"
	"github.com/yukikurage/taskmaster-api/internal/services"
	"golang.org/x/time/rate"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.GetLogger().Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.Init(cfg.LogLevel)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup session middleware with Redis
	store, err := redisStore.NewStore(
		10,              // Redis pool size
		"tcp",           // network type
		cfg.RedisAddr(), // Redis address from config
		"",              // username (empty for default user)
		"",              // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Error("failed to create Redis store", "error", err)
		os.Exit(1)
	}
	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, membershipRepo, taskRepo)
	participantService := services.NewParticipantService(projectRepo, membershipRepo)
	invitationService := services.NewInvitationService(projectRepo, membershipRepo, userRepo, invitationRepo)
	taskService := services.NewTaskService(projectRepo, membershipRepo, userRepo, taskRepo)
	notificationService := services.NewNotificationService(invitationRepo, notificationRepo)
	chatService := services.NewChatService(projectRepo, membershipRepo, chatRepo)

	// Initialize handlers
	loginLimiter := rate.NewLimiter(rate.Limit(cfg.LoginRateLimit), cfg.LoginRateBurst)
	authHandler := handlers.NewAuthHandler(authService, loginLimiter)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	participantHandler := handlers.NewParticipantHandler(participantService, invitationService)
	notificationHandler := handlers.NewNotificationHandler(invitationService, notificationService)
	taskHandler := handlers.NewTaskHandler(taskService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Management API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// User lookup (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/search", userHandler.SearchUsers)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)

			project := projects.Group("/:id", middleware.RequireIDParams("id"))
			{
				project.GET("", projectHandler.GetProject)
				project.PUT("", projectHandler.UpdateProject)
				project.DELETE("", projectHandler.DeleteProject)

				project.GET("/participants", participantHandler.ListParticipants)
				project.PATCH("/participants/:user_id", middleware.RequireIDParams("user_id"), participantHandler.ChangeRole)
				project.DELETE("/participants/:user_id", middleware.RequireIDParams("user_id"), participantHandler.RemoveParticipant)
				project.POST("/invitations", participantHandler.SendInvitation)

				project.GET("/chat", chatHandler.ListMessages)
				project.POST("/chat", chatHandler.PostMessage)
			}
		}

		// Invitation routes (protected)
		invitations := api.Group("/invitations")
		invitations.Use(middleware.RequireAuth())
		{
			invitations.POST("/:id/accept", middleware.RequireIDParams("id"), notificationHandler.AcceptInvitation)
			invitations.POST("/:id/reject", middleware.RequireIDParams("id"), notificationHandler.RejectInvitation)
		}

		// Notification routes (protected)
		notifications := api.Group("/notifications")
		notifications.Use(middleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.DELETE("/:id", middleware.RequireIDParams("id"), notificationHandler.DeleteNotification)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.RequireIDParams("id"), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireIDParams("id"), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireIDParams("id"), taskHandler.DeleteTask)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "address", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
