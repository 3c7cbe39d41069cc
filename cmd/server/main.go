// Package main initializes and starts the account HTTP server,
// setting up configuration, logging, the database connection,
// the repository, the service, and the handlers.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"github.com/vpetrov/accountsvc/internal/config"
	"github.com/vpetrov/accountsvc/internal/db"
	"github.com/vpetrov/accountsvc/internal/logger"
	"github.com/vpetrov/accountsvc/internal/repository"
	"github.com/vpetrov/accountsvc/internal/server/handler/http"
	"github.com/vpetrov/accountsvc/internal/service"
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
	addr := options.Port
	dsn := options.DatabaseDSN

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection and bootstrap the schema.
	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize the account repository.
	accountRepo := repository.NewPostgresAccountRepository(postgresDB)

	// Initialize the business-logic service.
	accountService := service.NewAccountService(accountRepo, zapLogger)

	// Create HTTP handlers for the account endpoints.
	accountHandler := &http.AccountHandler{AccountService: accountService}

	// Build the router with middleware and routes.
	router := http.NewRouter(accountHandler, zapLogger)

	// Create and start the HTTP server.
	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
