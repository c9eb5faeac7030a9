package integration_testing

import (
	"context"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/2beens/sportanalytics/internal"
	"github.com/2beens/sportanalytics/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverHost = "127.0.0.1"
	serverPort = 9000

	postgresDBName   = "sport_analytics"
	postgresPassword = "postgres"
)

var serverEndpoint = "http://" + net.JoinHostPort(serverHost, strconv.Itoa(serverPort))

// Environment is a running server backed by redis and postgres containers.
type Environment struct {
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Server      *internal.Server

	dockerPool *dockertest.Pool
	teardown   []func()
}

type EnvironmentParams struct {
	AdminUsername     string
	AdminPasswordHash string
	ExportPath        string
}

func NewEnvironment(ctx context.Context, params EnvironmentParams) (_ *Environment, err error) {
	env := &Environment{
		teardown: make([]func(), 0),
	}
	defer func() {
		if err != nil {
			env.Cleanup()
		}
	}()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	env.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("could not create new dockertest pool: %w", err)
	}

	// uses pool to try to connect to Docker
	if err = env.dockerPool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping dockertest pool: %w", err)
	}

	redisPort, err := env.redisSetup(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup redis: %w", err)
	}

	pgPort, err := env.postgresSetup(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup postgres: %w", err)
	}

	cfg := testConfig(redisPort, pgPort, params.ExportPath)
	env.Server, err = internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:                  cfg,
			VersionInfo:             "test-version-info",
			AdminUsername:           params.AdminUsername,
			AdminPasswordHash:       params.AdminPasswordHash,
			PostgresPassword:        postgresPassword,
			HoneycombTracingEnabled: false,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("new server: %w", err)
	}

	env.Server.Serve(ctx, cfg.Host, cfg.Port)

	return env, env.waitForServer()
}

func (e *Environment) Cleanup() {
	if e.Server != nil {
		e.Server.GracefulShutdown()
	}
	if e.RedisClient != nil {
		if err := e.RedisClient.Close(); err != nil {
			log.Printf("redis client close: %s", err)
		}
	}
	if e.DB != nil {
		e.DB.Close()
	}
	for _, teardown := range e.teardown {
		teardown()
	}
}

// FlushRedis removes sessions and rate limiter state.
func (e *Environment) FlushRedis(ctx context.Context) error {
	return e.RedisClient.FlushAll(ctx).Err()
}

func testConfig(redisPort, postgresPort, exportPath string) *config.Config {
	return &config.Config{
		Host:                  serverHost,
		Port:                  serverPort,
		LogLevel:              "debug",
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: "0",
		RedisHost:             "localhost",
		RedisPort:             redisPort,
		PostgresHost:          "localhost",
		PostgresPort:          postgresPort,
		PostgresDBName:        postgresDBName,
		PostgresUser:          "postgres",
		DataSource:            config.DataSourceCSV,
		LocalExportPath:       exportPath,
		Worksheet:             "DATA",
		SheetHeaderRow:        1,
		CompareDefaultCount:   3,
		AllowedOrigins:        []string{"*"},
		LoginRateLimit:        10,
	}
}

func (e *Environment) redisSetup(ctx context.Context) (string, error) {
	redisResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := redisResource.Close(); err != nil {
			log.Printf("redis teardown: %s", err)
		}
	})

	redisPort := redisResource.GetPort("6379/tcp")
	e.RedisClient = redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	if err := e.dockerPool.Retry(func() error {
		return e.RedisClient.Ping(ctx).Err()
	}); err != nil {
		return "", fmt.Errorf("connect to redis: %w", err)
	}

	return redisPort, nil
}

func (e *Environment) postgresSetup(ctx context.Context) (string, error) {
	pgResource, err := e.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "12",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + postgresPassword,
			"POSTGRES_DB=" + postgresDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %w", err)
	}

	e.teardown = append(e.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Printf("postgres teardown: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf(
		"postgres://postgres:%s@localhost:%s/%s?sslmode=disable",
		postgresPassword, pgPort, postgresDBName,
	)
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return "", fmt.Errorf("parse db config: %w", err)
	}

	e.DB, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return "", fmt.Errorf("create connection pool: %w", err)
	}

	if err := e.dockerPool.Retry(func() error {
		return e.DB.Ping(ctx)
	}); err != nil {
		return "", fmt.Errorf("connect to db: %w", err)
	}

	return pgPort, nil
}

func (e *Environment) waitForServer() error {
	e.dockerPool.MaxWait = 30 * time.Second
	return e.dockerPool.Retry(func() error {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(serverHost, strconv.Itoa(serverPort)), time.Second)
		if err != nil {
			return err
		}
		return conn.Close()
	})
}
