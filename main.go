package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/chatroom-server/modules/chat"
	"github.com/example/chatroom-server/modules/presence"
	"github.com/example/chatroom-server/modules/wsserver"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Chatroom Server ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "6142"
	}

	chatModule, err := chat.NewModule(app.Logger())
	if err != nil {
		log.Fatalf("Failed to create chat module: %v", err)
	}
	presenceModule := presence.NewModule(app.Logger())
	serverModule := wsserver.NewModule(":"+port, chatModule, presenceModule, app.Logger())

	// Order: independent modules first, then modules with dependencies
	// - chat: registries + session factory (event emitter)
	// - presence: event consumer keeping activity counters
	// - ws-server: Fiber transport hosting /ws and the directory API
	app.Register(chatModule)
	app.Register(presenceModule)
	app.Register(serverModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(port)

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

func printStartupInfo(port string) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Connect and chat; you are assigned a name and placed in \"main\"")
	log.Println("  Commands: /join /name /users /allusers /rooms /renameroom /help /quit")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET /health                      - Health check")
	log.Println("  GET /api/v1/rooms                - List rooms by subscriber count")
	log.Println("  GET /api/v1/rooms/:name/members  - List members of a room")
	log.Println("  GET /api/v1/users                - List connected users")
	log.Println("  GET /api/v1/stats                - Presence counters")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
