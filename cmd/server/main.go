package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xhad/sanket/internal/app"
	"github.com/xhad/sanket/internal/logging"
	cfgPkg "github.com/xhad/sanket/pkg/config"
	"github.com/xhad/sanket/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := cfgPkg.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.New(cfg.Logging.Level)
	for _, verr := range cfg.Validate() {
		logger.Warn("configuration problem", "error", verr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := app.New(ctx, cfg, app.Options{Logger: logger})
	if err != nil {
		log.Fatalf("Failed to initialize components: %v", err)
	}
	defer components.Close()

	srvConfig := server.ServerConfig{
		Analyst:        components.Agent,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	}
	if components.Store != nil {
		srvConfig.Users = components.Store
		srvConfig.Profiles = components.Store
		srvConfig.History = components.Store
	} else {
		logger.Warn("no database configured; account, profile and history routes are disabled")
	}

	httpServer := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      server.NewWithConfig(srvConfig).Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-sigChan
	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
