package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/sportanalytics/internal"
	"github.com/2beens/sportanalytics/internal/config"
	"github.com/2beens/sportanalytics/internal/logging"
	"github.com/2beens/sportanalytics/pkg"

	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given admin password and exit")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := pkg.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash password: %s", err)
		}
		fmt.Println(hash)
		return
	}

	fmt.Println("starting ...")

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		Service:       "sportanalytics-service",
		LogFileName:   cfg.LogsPath,
		LogToStdout:   cfg.LogToStdout,
		LogLevel:      cfg.LogLevel,
		LogFormatJSON: cfg.LogFormatJSON,
		Environment:   *env,
		SentryEnabled: cfg.SentryEnabled,
		SentryDSN:     sentryDSN,
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)
	log.Debugf("using data source: [%s]", cfg.DataSource)

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	adminUsername := os.Getenv("SPORT_ANALYTICS_ADMIN_USERNAME")
	adminPasswordHash := os.Getenv("SPORT_ANALYTICS_ADMIN_PASSWORD_HASH")
	if adminUsername == "" || adminPasswordHash == "" {
		// nobody can log in then, the public dashboard still works
		log.Errorf("admin username and password not set. use SPORT_ANALYTICS_ADMIN_USERNAME and SPORT_ANALYTICS_ADMIN_PASSWORD_HASH")
	}

	redisPassword := os.Getenv("SPORT_ANALYTICS_REDIS_PASS")
	if redisPassword == "" {
		log.Warnln("redis password not set. use SPORT_ANALYTICS_REDIS_PASS")
	}

	postgresPassword := os.Getenv("SPORT_ANALYTICS_POSTGRES_PASS")

	var googleCredentialsJSON []byte
	googleCredentialsPath := cfg.GoogleCredentials
	if envPath := os.Getenv("SPORT_ANALYTICS_GOOGLE_CREDENTIALS"); envPath != "" {
		googleCredentialsPath = envPath
	}
	if cfg.DataSource == config.DataSourceGoogleSheets && googleCredentialsPath != "" {
		exists, err := pkg.PathExists(googleCredentialsPath, false)
		if err != nil {
			log.Fatalf("google credentials: %s", err)
		}
		if !exists {
			log.Fatalf("google credentials file not found: %s", googleCredentialsPath)
		}
		googleCredentialsJSON, err = os.ReadFile(googleCredentialsPath)
		if err != nil {
			log.Fatalf("read google credentials: %s", err)
		}
	}

	if otelServiceName := os.Getenv("OTEL_SERVICE_NAME"); otelServiceName == "" {
		log.Warnln("OTEL_SERVICE_NAME env var not set")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	if honeycombEnabled {
		if honeycombApiKey := os.Getenv("HONEYCOMB_API_KEY"); honeycombApiKey == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             versionInfo,
			AdminUsername:           adminUsername,
			AdminPasswordHash:       adminPasswordHash,
			RedisPassword:           redisPassword,
			PostgresPassword:        postgresPassword,
			GoogleCredentialsJSON:   googleCredentialsJSON,
			HoneycombTracingEnabled: honeycombEnabled,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(ctx, cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, killing everything ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(stdout), nil
}
