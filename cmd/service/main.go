package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"eco-service/internal/app"
	"eco-service/internal/service"
	"eco-service/pkg/service/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// A missing .env file is fine; the environment wins over it.
	_ = godotenv.Load()

	config, err := app.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("can't create new config: %s", err)
	}

	application, err := app.New(ctx, config)
	if err != nil {
		log.Fatalf("application could not been initialized: %s", err)
	}

	svc := service.New(application)
	server.RegisterServiceServer(application, svc)
	svc.RegisterRoutes(application.Router())

	if err = application.Run(); err != nil {
		log.Fatalf("application terminated abnormally: %s", err)
	}
}
