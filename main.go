package main

import (
	"context"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"google.golang.org/api/option"

	"messaging-backend/internal/db"
	"messaging-backend/internal/handlers"
	"messaging-backend/internal/identity"
	"messaging-backend/internal/middleware"
	"messaging-backend/internal/observability"
	"messaging-backend/internal/rabbitmq"
	"messaging-backend/internal/repositories"
	"messaging-backend/internal/telemetry"
	"messaging-backend/internal/ws"
)

const serviceName = "messaging-backend"

func main() {
	ctx := context.Background()

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	var opts []option.ClientOption
	if credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		log.Fatalf("failed to init identity provider: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("failed to init identity provider auth: %v", err)
	}

	var verifier identity.PasswordVerifier
	if apiKey := os.Getenv("FIREBASE_WEB_API_KEY"); apiKey != "" {
		verifier = identity.NewRESTVerifier(apiKey)
	} else {
		log.Printf("FIREBASE_WEB_API_KEY not set, login will not verify passwords")
	}
	gateway := identity.NewFirebaseGateway(authClient, verifier)

	shutdownTracing, err := observability.SetupTracing(ctx, serviceName, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	exchange := getEnv("AMQP_EXCHANGE", "messaging.events")
	publisher := rabbitmq.NewPublisher(os.Getenv("AMQP_URL"), exchange)
	defer publisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(publisher))
	audit := telemetry.NewAuditEmitter(publisher, "audit.messaging", serviceName, getEnv("ENVIRONMENT", "development"))

	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		wsPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange)
		if err != nil {
			log.Printf("ws event publisher disabled: %v", err)
		} else {
			observability.SetPublisher(wsPublisher)
			defer wsPublisher.Close()
		}
	}

	messageRepo := repositories.NewConversationMessageRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	groupMessageRepo := repositories.NewGroupMessageRepo(database)

	hub := ws.NewHub()

	authHandler := handlers.NewAuthHandler(gateway, audit)
	messageHandler := handlers.NewMessageHandler(messageRepo, hub)
	groupHandler := handlers.NewGroupHandler(groupRepo, groupMessageRepo, hub, audit)

	convoWS := ws.NewConversationWebSocketHandler(hub, gateway)
	groupWS := ws.NewGroupWebSocketHandler(hub, groupRepo, gateway)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.PUT("/auth/profile", authHandler.UpdateProfile)
	router.DELETE("/auth/delete", authHandler.DeleteAccount)

	router.POST("/messages/send", messageHandler.SendMessage)
	router.GET("/messages/conversations/:senderId/:receiverId", messageHandler.GetConversation)

	router.POST("/messages/groups/create", groupHandler.CreateGroup)
	router.PUT("/messages/groups/:groupId/add", groupHandler.AddMember)
	router.PUT("/messages/groups/:groupId/remove", groupHandler.RemoveMember)
	router.POST("/messages/groups/:groupId/send", groupHandler.SendGroupMessage)
	router.GET("/messages/groups/:groupId", groupHandler.GetGroup)
	router.GET("/messages/groups/:groupId/messages", groupHandler.GetGroupMessages)

	router.GET("/ws/conversations/:senderId/:receiverId", convoWS.Handle)
	router.GET("/ws/groups/:groupId", groupWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterDebugRoutes(router, audit, os.Getenv("DEBUG_ROUTES") == "true")

	router.StaticFile("/", "./public/index.html")
	router.StaticFile("/app.js", "./public/app.js")

	port := getEnv("PORT", "3000")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
