package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gyesanghoe/gyesanghoe/internal/blob"
	"github.com/gyesanghoe/gyesanghoe/internal/database"
	"github.com/gyesanghoe/gyesanghoe/internal/gate"
	"github.com/gyesanghoe/gyesanghoe/internal/logging"
	"github.com/gyesanghoe/gyesanghoe/internal/server"
)

// sessionMaxIdle is how long an untouched session survives before the
// pruner drops it.
const sessionMaxIdle = 12 * time.Hour

func main() {
	godotenv.Load()

	logger := logging.Setup(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	port := os.Getenv("GYESANGHOE_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("GYESANGHOE_DB_PATH")
	if dbPath == "" {
		dbPath = "gyesanghoe.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gateCfg := gate.Config{
		EntryPIN:  os.Getenv("GYESANGHOE_ENTRY_PIN"),
		MemberPIN: os.Getenv("GYESANGHOE_MEMBER_PIN"),
		AdminPIN:  os.Getenv("GYESANGHOE_ADMIN_PIN"),
	}
	blobCfg := blob.Config{
		Endpoint:  os.Getenv("GYESANGHOE_S3_ENDPOINT"),
		Region:    os.Getenv("GYESANGHOE_S3_REGION"),
		AccessKey: os.Getenv("GYESANGHOE_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("GYESANGHOE_S3_SECRET_KEY"),
	}
	if !blobCfg.Configured() {
		logger.Warn("blob storage not configured, photo uploads disabled")
	}

	srv, err := server.New(db, gateCfg, blobCfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := srv.Syncer().LoadAll(loadCtx); err != nil {
		cancelLoad()
		logger.Error("initial data load failed", "error", err)
		os.Exit(1)
	}
	cancelLoad()

	// Drop sessions abandoned mid-visit.
	pruneDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := srv.Registry().PruneIdle(sessionMaxIdle); n > 0 {
					logger.Info("pruned idle sessions", "count", n)
				}
			case <-pruneDone:
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("계상회 running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	close(pruneDone)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
