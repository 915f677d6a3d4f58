package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/quickdialer/api"
	"github.com/rpupo63/quickdialer/config"
	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/logging"
	"github.com/rpupo63/quickdialer/models"
)

func main() {
	fmt.Println("Initializing app...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg)
	if err != nil {
		fmt.Printf("Error configuring logger: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().Str("dbType", cfg.DBType).Msg("Connecting to database...")
	db, err := database.Open(cfg, logging.Gorm(log.Logger))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	currentDB := database.New(db)

	// Test database connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = currentDB.Ping(pingCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if cfg.GenerateModels {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db, "./query"); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if cfg.GenerateColumnReport {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.WriteColumnMismatchReport(db, os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	if err := run(cfg, currentDB, db); err != nil {
		log.Error().Err(err).Msg("Server stopped with error")
	}
}

func run(cfg config.Config, currentDB database.Database, db *gorm.DB) error {
	errChannel := make(chan error, 2)

	server, err := api.NewServer(cfg, currentDB)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(cfg.ShutdownTimeout)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
