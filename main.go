package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/roomchat/modules/activity"
	"github.com/example/roomchat/modules/api"
	"github.com/example/roomchat/modules/auth"
	"github.com/example/roomchat/modules/chat"
	"github.com/example/roomchat/modules/history"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Roomchat - Real-Time Room Chat Backend ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	historyModule := history.NewModule()
	chatModule := chat.NewModule(historyModule.Store())
	authModule := auth.NewModule()
	activityModule := activity.NewModule()
	apiModule := api.NewModule()

	// Inject the chat hub into the API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(chatModule.Hub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - history: Message log (ServiceProviderModule, SQLite via GORM)
	// - chat: Room registry + hub (ServiceProviderModule + EventEmitterModule)
	// - auth: Accounts and tokens (ServiceProviderModule, SQLite via GORM)
	// - activity: Traffic counters (EventConsumerModule)
	// - api: Driving adapter (Fiber HTTP/WebSocket server, depends on the rest)
	app.Register(historyModule)
	app.Register(chatModule)
	app.Register(authModule)
	app.Register(activityModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Architecture:")
	log.Println("  - HTTP Framework: Fiber with WebSocket support")
	log.Println("  - Event Bus: NATS JetStream (internal pubsub)")
	log.Printf("  - NATS URL: %s", natsURL)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health                        - Health check")
	log.Println("  POST   /api/v1/auth/register          - Create an account")
	log.Println("  POST   /api/v1/auth/login             - Obtain a token pair")
	log.Println("  POST   /api/v1/auth/refresh           - Refresh tokens")
	log.Println("  GET    /api/v1/users                  - User directory with current rooms")
	log.Println("  GET    /api/v1/rooms                  - List all rooms")
	log.Println("  POST   /api/v1/rooms                  - Create a new room")
	log.Println("  GET    /api/v1/rooms/:name/members    - Room member snapshot")
	log.Println("  GET    /api/v1/rooms/:name/messages   - Room message history")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Connect with: ws://localhost:3000/ws?token=<access token>")
	log.Println("  Frame types: auth, join, message, leave")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
