package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitalpress/vitalpress-backend/handlers"
	"github.com/vitalpress/vitalpress-backend/internal/blog/repository"
	"github.com/vitalpress/vitalpress-backend/internal/blog/service"
	"github.com/vitalpress/vitalpress-backend/internal/database"
	"github.com/vitalpress/vitalpress-backend/internal/tokens"
	"github.com/vitalpress/vitalpress-backend/pkg/middleware"
)

// Standalone content service runner: Mongo when MONGODB_URI is set, an
// in-memory repository otherwise. Useful for local frontend work and smoke
// tests without the full stack.
func main() {
	port := os.Getenv("BLOG_SERVICE_PORT")
	if port == "" {
		port = "5090"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	var repo repository.Repository
	if mongoURI := os.Getenv("MONGODB_URI"); mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v) — using memory-backed repo", err)
			repo = repository.NewMemoryRepo()
		} else {
			repo = repository.NewMongoRepo(client.Database(os.Getenv("MONGODB_DATABASE")).Collection("blogs"))
		}
	} else {
		repo = repository.NewMemoryRepo()
	}

	var ver middleware.Verifier
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		ver = tokens.NewHMACVerifier(secret)
	}

	handlers.NewBlogHandler(service.New(repo)).Register(r, ver)

	log.Printf("blog service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
