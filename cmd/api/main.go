package main

import (
	"context"
	"log"

	"github.com/acadwear/faculty-wear-api/internal/config"
	"github.com/acadwear/faculty-wear-api/internal/db"
	"github.com/acadwear/faculty-wear-api/internal/imagestore"
	"github.com/acadwear/faculty-wear-api/internal/model"
	"github.com/acadwear/faculty-wear-api/internal/server"
	"github.com/joho/godotenv"
)

// Set via -ldflags at build time.
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(&model.FacultyWear{}); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	images, err := imagestore.FromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("image store init error: %v", err)
	}

	srv := server.New(conn, images, gitSHA, buildTime)

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
