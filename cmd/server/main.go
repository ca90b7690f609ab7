package main

import (
	"fmt"

	"github.com/mpetrenko/fieldstore/internal/config"
	handler "github.com/mpetrenko/fieldstore/internal/handler/http"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/server"
	"github.com/mpetrenko/fieldstore/internal/service"
	"github.com/mpetrenko/fieldstore/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("fieldstore-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	services := service.NewServices(storages, *cfg, log)

	httpHandler := handler.NewHandler(services, log)

	srv, err := server.NewServer(httpHandler, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
