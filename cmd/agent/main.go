package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mpetrenko/fieldstore/internal/adapter"
	"github.com/mpetrenko/fieldstore/internal/config"
	"github.com/mpetrenko/fieldstore/internal/logger"
	"github.com/mpetrenko/fieldstore/internal/service"
	"github.com/mpetrenko/fieldstore/internal/tui"
	"github.com/mpetrenko/fieldstore/internal/utils"
	"github.com/mpetrenko/fieldstore/internal/workers"
	"github.com/mpetrenko/fieldstore/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Registered before GetAgentConfig, which triggers flag.Parse.
	showStatus := flag.Bool("status", false, "print quota usage and exit")
	register := flag.Bool("register", false, "create the account before logging in")
	login := flag.String("login", "", "account login")
	password := flag.String("password", "", "account password")

	log := logger.NewAgentLogger("fieldstore-agent")
	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	remote, err := adapter.NewHTTPRemoteStore(config.Adapter{
		HTTPAddress:    cfg.Adapter.HTTPAddress,
		RequestTimeout: cfg.Adapter.RequestTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store adapter")
	}

	services, err := service.NewClientServices(cfg, remote, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create client services")
	}

	if *showStatus {
		fmt.Print(tui.RenderQuotaStatus(services.Documents.QuotaStatus()))
		return
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if *login != "" {
		if err = authenticate(ctx, remote, *login, *password, *register); err != nil {
			log.Fatal().Err(err).Msg("remote store authentication failed")
		}
		log.Info().Str("login", *login).Msg("authenticated against remote store")
	}

	job := workers.NewSyncJob(services.Sync, log)
	job.Start(ctx, cfg.Sync.Interval)
	job.Kick()

	log.Info().Dur("interval", cfg.Sync.Interval).Msg("agent running")

	<-ctx.Done()
	job.Stop()

	log.Info().Msg("agent stopped")
}

// authenticate derives the credential hash on-device; the plaintext
// password never goes over the wire.
func authenticate(ctx context.Context, remote adapter.RemoteStore, login, password string, register bool) error {
	user := models.User{
		Login:        login,
		PasswordHash: utils.HashPassword(password, login),
	}

	var err error
	if register {
		_, err = remote.Register(ctx, user)
	} else {
		_, err = remote.Login(ctx, user)
	}

	return err
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
