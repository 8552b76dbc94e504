package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Adilzhan2201/Special_Network/internal/config"
	"github.com/Adilzhan2201/Special_Network/internal/database"
	"github.com/Adilzhan2201/Special_Network/internal/handlers"
	"github.com/Adilzhan2201/Special_Network/internal/hub"
	"github.com/Adilzhan2201/Special_Network/internal/repository"
	cron "github.com/Adilzhan2201/Special_Network/internal/scheduler"
	"github.com/Adilzhan2201/Special_Network/internal/services"
	"github.com/Adilzhan2201/Special_Network/pkg/logger"
	"github.com/Adilzhan2201/Special_Network/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	chatRepo := repository.NewChatRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	postRepo := repository.NewPostRepository(db)

	// --- Hub ---
	wsHub := hub.NewHub()

	// --- Services ---
	userService := services.NewUserService(userRepo)
	friendService := services.NewFriendService(friendRepo, userRepo)
	chatService := services.NewChatService(chatRepo, userRepo, wsHub)
	storyService := services.NewStoryService(storyRepo, userRepo)
	postService := services.NewPostService(postRepo, userRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(friendService)
	chatHandler := handlers.NewChatHandler(chatService)
	storyHandler := handlers.NewStoryHandler(storyService)
	postHandler := handlers.NewPostHandler(postService)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)
	wsHandler := handlers.NewWSHandler(wsHub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	// Auth routes
	router.HandleFunc("/api/auth/signup", userHandler.SignupHandler).Methods("POST")
	router.HandleFunc("/api/auth/login", userHandler.LoginHandler).Methods("POST")

	// Profile routes
	profileRoutes := router.PathPrefix("/api/profile").Subrouter()
	profileRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	profileRoutes.HandleFunc("", userHandler.GetProfileHandler).Methods("GET")
	profileRoutes.HandleFunc("", userHandler.UpdateProfileHandler).Methods("PUT")
	profileRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")

	// Friend routes
	friendRoutes := router.PathPrefix("/api/friends").Subrouter()
	friendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	friendRoutes.HandleFunc("/request/{id}", friendHandler.SendFriendRequestHandler).Methods("POST")
	friendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	friendRoutes.HandleFunc("/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")
	friendRoutes.HandleFunc("/list", friendHandler.GetFriendsHandler).Methods("GET")
	friendRoutes.HandleFunc("/suggestions", friendHandler.GetSuggestionsHandler).Methods("GET")
	friendRoutes.HandleFunc("/non-friends", friendHandler.GetNonFriendsHandler).Methods("GET")
	friendRoutes.HandleFunc("/status/{id}", friendHandler.GetStatusHandler).Methods("GET")
	friendRoutes.HandleFunc("/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Chat routes
	chatRoutes := router.PathPrefix("/api/chat").Subrouter()
	chatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	chatRoutes.HandleFunc("/send", chatHandler.SendMessageHandler).Methods("POST")
	chatRoutes.HandleFunc("/history/{id}", chatHandler.GetHistoryHandler).Methods("GET")
	chatRoutes.HandleFunc("/conversations", chatHandler.GetConversationsHandler).Methods("GET")
	chatRoutes.HandleFunc("/mark-read/{id}", chatHandler.MarkReadHandler).Methods("POST")

	// Story routes
	storyRoutes := router.PathPrefix("/api/stories").Subrouter()
	storyRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	storyRoutes.HandleFunc("", storyHandler.CreateStoryHandler).Methods("POST")
	storyRoutes.HandleFunc("", storyHandler.GetFeedHandler).Methods("GET")
	storyRoutes.HandleFunc("/user/{id}", storyHandler.GetUserStoriesHandler).Methods("GET")
	storyRoutes.HandleFunc("/{id}/view", storyHandler.ViewStoryHandler).Methods("POST")
	storyRoutes.HandleFunc("/{id}/react", storyHandler.ReactStoryHandler).Methods("POST")
	storyRoutes.HandleFunc("/{id}", storyHandler.DeleteStoryHandler).Methods("DELETE")

	// Post routes
	postRoutes := router.PathPrefix("/api/posts").Subrouter()
	postRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	postRoutes.HandleFunc("", postHandler.CreatePostHandler).Methods("POST")
	postRoutes.HandleFunc("", postHandler.GetPostsHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}/like", postHandler.LikePostHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/comment", postHandler.CommentPostHandler).Methods("POST")

	// Upload route
	uploadRoutes := router.PathPrefix("/api/upload").Subrouter()
	uploadRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	uploadRoutes.HandleFunc("", uploadHandler.UploadFileHandler).Methods("POST")

	// WebSocket endpoint; connections authenticate over the socket itself
	router.HandleFunc("/ws", wsHandler.ServeWS)

	// Static uploads
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Hourly reclamation of expired stories
	sweeper := cron.StartStorySweep(storyService)
	defer sweeper.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
