package main

import (
	"context"
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/bloodlink/bloodlink-api/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("api exited: %v", err)
	}
}
