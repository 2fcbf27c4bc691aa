package main

import (
	"context"
	"log"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	"fitlink/internal/adapter/api"
	"fitlink/internal/adapter/api/handler"
	apimiddleware "fitlink/internal/adapter/api/middleware"
	"fitlink/internal/adapter/api/router"
	"fitlink/internal/adapter/repository"
	"fitlink/internal/infrastructure/firebase"
	"fitlink/internal/infrastructure/ratelimit"
	ws "fitlink/internal/infrastructure/websocket"
	"fitlink/internal/usecase"
	"fitlink/pkg/config"
	"fitlink/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development).
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		logger.Info("Using Firebase service account from file: %s", serviceAccountPath)
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable at %s, rate limiting disabled: %v", cfg.RedisAddr, err)
		redisClient = nil
	}
	limiter := ratelimit.NewLimiter(redisClient, cfg.MessageRateMax, time.Minute)

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	workoutRepo := repository.NewFirestoreWorkoutRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient, cfg.FirebaseAPIKey)

	wsManager := ws.NewManager()
	wsManager.Start(ctx)

	userUseCase := usecase.NewUserUseCase(userRepo)
	workoutUseCase := usecase.NewWorkoutUseCase(workoutRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, userRepo, notificationRepo, wsManager, limiter)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, userRepo, workoutRepo, chatUseCase)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.AllowedOrigins},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	handlers := router.Handlers{
		Health:       handler.NewHealthHandler(),
		User:         handler.NewUserHandler(userUseCase),
		Workout:      handler.NewWorkoutHandler(workoutUseCase),
		Chat:         handler.NewChatHandler(chatUseCase),
		Notification: handler.NewNotificationHandler(notificationUseCase),
		WebSocket:    handler.NewWebSocketHandler(wsManager, authMiddleware, chatUseCase, notificationUseCase),
		DevToken:     handler.NewDevTokenHandler(firebaseAuthClient),
	}
	router.Setup(e, handlers, authMiddleware, cfg.Environment)

	logger.Info("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
