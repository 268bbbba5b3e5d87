// sentiric-contacts-service/cmd/contacts-service/main.go
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-contacts-service/internal/app"
	"github.com/sentiric/sentiric-contacts-service/internal/config"
	"github.com/sentiric/sentiric-contacts-service/internal/logger"
)

var (
	ServiceVersion string
	GitCommit      string
	BuildDate      string
)

const serviceName = "contacts-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Kritik Hata: Konfigürasyon yüklenemedi: %v\n", err)
		os.Exit(1)
	}
	if ServiceVersion != "" {
		cfg.ServiceVersion = ServiceVersion
	}

	log := logger.New(
		serviceName,
		cfg.ServiceVersion,
		cfg.Env,
		cfg.LogLevel,
		cfg.LogFormat,
	)

	log.Info().
		Str("event", logger.EventSystemStartup).
		Dict("attributes", zerolog.Dict().
			Str("commit", GitCommit).
			Str("build_date", BuildDate).
			Str("profile", cfg.Env).
			Str("store", cfg.StoreDriver)).
		Msg("🚀 Sentiric Contacts Service başlatılıyor (SUTS v4.0)...")

	application := app.NewApp(cfg, log)
	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("Servis hatayla sonlandı")
		os.Exit(1)
	}
}
