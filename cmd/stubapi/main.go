package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fxrental/client/internal/config"
	"github.com/fxrental/client/internal/stub"
)

func main() {
	cfg, err := config.Load(os.Getenv("FXRENTAL_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	users := stub.NewUserRepo()
	tokens := stub.NewTokenService(cfg.Stub.JWTSecret)

	// Seed accounts so the client has something to log in to.
	if _, err := users.Create("Dev Admin", "admin@example.com", "admin123", true); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
	if _, err := users.Create("Dev Client", "client@example.com", "client123", false); err != nil {
		log.Fatalf("Failed to seed client account: %v", err)
	}

	handler := stub.NewHandler(users, tokens)
	router := stub.NewRouter(handler, tokens, users)

	srv := &http.Server{
		Addr:              ":" + cfg.Stub.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("Stub API listening on port %s", cfg.Stub.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down stub API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Stub API exited")
}
