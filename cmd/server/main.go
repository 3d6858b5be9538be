// Package main initializes and starts the gotwis HTTP server, setting up
// configuration, logging, the Redis store connection, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/avoronov/gotwis/internal/config"
	"github.com/avoronov/gotwis/internal/logger"
	"github.com/avoronov/gotwis/internal/metrics"
	"github.com/avoronov/gotwis/internal/repository"
	"github.com/avoronov/gotwis/internal/server/handler/http"
	"github.com/avoronov/gotwis/internal/service"
	"github.com/avoronov/gotwis/internal/store"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Addr

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Connect to the Redis store. A failed liveness check aborts startup.
	st, err := store.Open(context.Background(), store.Config{
		Addr:     options.RedisAddr,
		Password: options.RedisPassword,
		DB:       options.RedisDB,
	})
	if err != nil {
		zapLogger.Fatal("cannot reach store", zap.Error(err))
	}
	defer func() { _ = st.Close() }()

	// Pick the credential storage scheme.
	verifier, err := service.NewVerifier(options.CredentialScheme)
	if err != nil {
		zapLogger.Fatal("invalid credential scheme", zap.Error(err))
	}
	if options.CredentialScheme == "plaintext" {
		zapLogger.Warn("plaintext credential storage enabled; passwords are readable by anyone with store access")
	}

	// Initialize the repository and the identity service.
	identityRepo := repository.NewRedisIdentityRepository(st)
	identityService := service.NewIdentity(identityRepo, verifier, zapLogger)

	// Create HTTP handlers and register metrics.
	identityHandler := &http.IdentityHandler{Identity: identityService}
	metrics.Init()

	// Build the router with middleware and routes.
	router := http.NewRouter(identityHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	zapLogger.Info("starting HTTP server",
		zap.String("addr", addr),
		zap.String("store", options.RedisAddr),
	)
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
