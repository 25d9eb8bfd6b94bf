package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"textbook-market/internal/config"
	"textbook-market/internal/db"
	"textbook-market/internal/handlers"
	"textbook-market/internal/middleware"
	"textbook-market/internal/observability"
	"textbook-market/internal/rabbitmq"
	"textbook-market/internal/repositories"
	"textbook-market/internal/telemetry"
)

const serviceName = "textbook-market"

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	emitter := telemetry.NewEventEmitter(publisher, serviceName, cfg.Environment)

	messageRepo := repositories.NewMessageRepo(database)
	userRepo := repositories.NewUserRepo(database)
	textbookRepo := repositories.NewTextbookRepo(database)
	postRepo := repositories.NewPostRepo(database)

	messageHandler := handlers.NewMessageHandler(messageRepo, userRepo, emitter)
	userHandler := handlers.NewUserHandler(userRepo, cfg.SeedUsersPath)
	textbookHandler := handlers.NewTextbookHandler(textbookRepo, emitter)
	postHandler := handlers.NewPostHandler(postRepo)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	api := router.Group("/api")

	api.POST("/messages", messageHandler.SendMessage)
	api.GET("/messages/conversations/:user_id", messageHandler.ListConversations)
	api.GET("/messages/unread/:user_id", messageHandler.UnreadCount)
	api.GET("/messages/:user_id/:other_user_id", messageHandler.OpenThread)

	api.GET("/users", userHandler.ListUsers)
	api.POST("/users", userHandler.CreateUser)
	api.POST("/users/load", userHandler.LoadUsers)
	api.POST("/users/login", userHandler.Login)
	api.DELETE("/users/clear", userHandler.ClearUsers)

	api.GET("/textbooks", textbookHandler.ListTextbooks)
	api.GET("/textbooks/:textbook_id", textbookHandler.GetTextbook)
	api.POST("/textbooks", textbookHandler.CreateTextbook)

	api.GET("/posts", postHandler.ListPosts)
	api.POST("/posts", postHandler.CreatePost)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, emitter, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
