package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/sportanalytics/internal/auth"
	"github.com/2beens/sportanalytics/internal/config"
	"github.com/2beens/sportanalytics/internal/db"
	"github.com/2beens/sportanalytics/internal/gymstats/dashboard"
	"github.com/2beens/sportanalytics/internal/gymstats/refreshlog"
	"github.com/2beens/sportanalytics/internal/gymstats/workouts"
	"github.com/2beens/sportanalytics/internal/middleware"
	"github.com/2beens/sportanalytics/internal/telemetry/metrics"
	"github.com/2beens/sportanalytics/internal/telemetry/tracing"
	"github.com/2beens/sportanalytics/pkg"
)

const sessionsCleanupInterval = 8 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config  *config.Config
	dbPool  *pgxpool.Pool
	cancel  context.CancelFunc
	stopped chan struct{}

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	dashboardService *dashboard.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	PostgresPassword        string
	GoogleCredentialsJSON   []byte
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "sportanalytics-backend")
	if err != nil {
		return nil, err
	}

	var (
		dbPool           *pgxpool.Pool
		pgxpoolCollector prometheus.Collector
		recorder         dashboard.RefreshRecorder = refreshlog.NopRepo{}
	)
	if cfg.PostgresEnabled() {
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			otelShutdown()
			return nil, fmt.Errorf("new db pool: %w", err)
		}

		refreshRepo := refreshlog.NewRepo(dbPool)
		if err := refreshRepo.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			otelShutdown()
			return nil, err
		}
		recorder = refreshRepo
		pgxpoolCollector = pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		)
	} else {
		log.Warnln("postgres not configured, dashboard refreshes will not be recorded")
	}

	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("sportanalytics", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   time.Minute,
	}

	source, err := newWorkoutSource(ctx, cfg, params.GoogleCredentialsJSON, tracedHttpClient)
	if err != nil {
		_ = rdb.Close()
		if dbPool != nil {
			dbPool.Close()
		}
		otelShutdown()
		return nil, fmt.Errorf("workout source: %w", err)
	}
	log.Infof("workout data source: %s", source.Name())

	dashboardService := dashboard.NewService(dashboard.NewServiceParams{
		Source: source,
		Normalizer: workouts.NewNormalizer(workouts.Options{
			StrictCoercion: cfg.StrictCoercion,
		}),
		Recorder:            recorder,
		Metrics:             metricsManager,
		CompareDefaultCount: cfg.CompareDefaultCount,
	})

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		stopped:     make(chan struct{}),

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		dashboardService: dashboardService,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	dashboardHandler := dashboard.NewHandler(s.dashboardService, s.metricsManager)
	dashboardRouter := r.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/options", dashboardHandler.HandleOptions).Methods("GET", "OPTIONS").Name("dashboard-options")
	dashboardRouter.HandleFunc("/exercise", dashboardHandler.HandleExercise).Methods("GET", "OPTIONS").Name("dashboard-exercise")
	dashboardRouter.HandleFunc("/compare", dashboardHandler.HandleCompare).Methods("GET", "OPTIONS").Name("dashboard-compare")
	dashboardRouter.HandleFunc("/cameras", dashboardHandler.HandleCameras).Methods("GET", "OPTIONS").Name("dashboard-cameras")
	dashboardRouter.HandleFunc("/colors/adjust", dashboardHandler.HandleAdjustColor).Methods("GET", "OPTIONS").Name("dashboard-colors-adjust")
	dashboardRouter.HandleFunc("/refreshes", dashboardHandler.HandleRefreshes).Methods("GET", "OPTIONS").Name("dashboard-refreshes")

	authHandler := auth.NewHandler(s.authService)
	loginRouter := r.PathPrefix("/a").Subrouter()
	loginRouter.HandleFunc("/login", authHandler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.HandleFunc("/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	// rate limit the /login and /logout endpoints to prevent abuse
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRouter.Use(middleware.RateLimit(reqRateLimiter, "login", s.config.LoginRateLimit, s.metricsManager))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	ctx, s.cancel = context.WithCancel(ctx)

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	go s.cleanSessionsPeriodically(ctx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) cleanSessionsPeriodically(ctx context.Context) {
	defer close(s.stopped)

	ticker := time.NewTicker(sessionsCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := s.authService.ScanAndClean(ctx, now)
			if err != nil {
				log.Errorf("clean sessions: %s", err)
				continue
			}
			log.Debugf("clean sessions: %d removed", removed)
		}
	}
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.cancel != nil {
		s.cancel()
		<-s.stopped
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var shutdownErr error
	if s.httpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		shutdownErr = multierr.Append(shutdownErr, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		shutdownErr = multierr.Append(shutdownErr, s.redisClient.Close())
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	for _, err := range multierr.Errors(shutdownErr) {
		log.Errorf(" >>> graceful shutdown: %s", err)
	}
}
