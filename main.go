package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"clipforge/api"
	"clipforge/session"
	"clipforge/storage"
	"clipforge/transcode"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	ctx := context.Background()

	store, err := storage.NewS3(ctx, storage.Config{
		Bucket:       os.Getenv("S3_BUCKET"),
		Region:       os.Getenv("AWS_REGION"),
		Profile:      os.Getenv("AWS_PROFILE"),
		UsePathStyle: os.Getenv("S3_PATH_STYLE") == "true",
	})
	if err != nil {
		log.Fatalf("failed to create S3 client: %v", err)
	}

	engine := transcode.NewEngine(os.Getenv("TEMP_DIR"))
	if err := engine.Init(ctx); err != nil {
		// Processing stays disabled (503) until ffmpeg shows up; the editing
		// surface itself still works.
		log.Printf("transcoding engine unavailable: %v", err)
	} else {
		log.Println("transcoding engine initialized")
	}
	defer engine.Dispose()

	mgr := session.NewManager(store, engine, os.Getenv("TEMP_DIR"), nil)

	r := api.NewRouter(mgr, os.Getenv("AUTH_TOKEN"))
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /api/health")
	log.Println("  POST   /api/sessions")
	log.Println("  GET    /api/sessions/:id")
	log.Println("  PUT    /api/sessions/:id/options")
	log.Println("  POST   /api/sessions/:id/process")
	log.Println("  DELETE /api/sessions/:id")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
