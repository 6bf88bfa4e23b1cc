package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/uiineed/todo-service/internal/app"
	"github.com/uiineed/todo-service/internal/config"
)

func main() {
	// A missing .env is fine; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application terminated: %v", err)
	}
}
