package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Virtual Lab Portal")
	Conf.SetDefault("secretKey", "x9m)w&vqb$+34=kz&ecfh7(t!r)#*a8(#dj5u^$pqsn3olw")
	Conf.SetDefault("defaultFromEmail", "noreply@localhost")
	Conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	Conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	Conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	// every datastore round trip is bounded by this timeout; expiry surfaces as ErrStoreUnavailable
	Conf.SetDefault("storeTimeout", 5*time.Second)

	// uploads beyond this size are rejected before any store interaction
	Conf.SetDefault("maxUploadBytes", int64(5<<20))

	// fallback poll interval advertised to notification clients
	Conf.SetDefault("notifPollInterval", 30*time.Second)
	Conf.SetDefault("notifPageSize", 20)

	Conf.SetDefault("server.address", ":8000")
	Conf.SetDefault("server.shutdownTimeout", 20*time.Second)

	// external services; empty keys keep the console/std fallbacks active
	Conf.SetDefault("sendgridApiKey", "")
	Conf.SetDefault("rollbarToken", "")

	Conf.SetDefault("database.engine", "postgres")
	Conf.SetDefault("database.name", "vlabportal")
	Conf.SetDefault("database.host", "localhost")
	Conf.SetDefault("database.port", "5432")
	Conf.SetDefault("database.user", "")
	Conf.SetDefault("database.password", "")
	Conf.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		Conf.SetDefault("testMode", true)
	}
	Conf.SetEnvPrefix(env)
	Conf.SetDefault("env", env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}
