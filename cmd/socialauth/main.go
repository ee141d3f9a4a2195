package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"socialauth/cfg"
	"socialauth/internal/identity"
	"socialauth/pkg/cache"
	"socialauth/pkg/db"
	"socialauth/pkg/idgen"
	"socialauth/pkg/logger"
	"socialauth/pkg/social"

	_ "socialauth/api" // swagger docs

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const stateTTL = 10 * time.Minute

func main() {
	// ============
	// config
	// ============
	config, errCfg := cfg.Load()
	if errCfg != nil {
		log.Fatal(errCfg)
	}

	// ============
	// logger
	// ============
	zlogger := logger.NewZeroLog(config.AppEnv)

	// ============
	// Otel
	// ============
	shutdownOtel, err := initOtel(context.Background(), &config.Observability, zlogger)
	if err != nil {
		log.Fatalf("failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(ctx); err != nil {
			log.Printf("failed to shutdown OpenTelemetry: %v", err)
		}
	}()

	// ============
	// Build Postgres DSN from config
	// ============
	pg := config.Postgres
	pgDSN := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		pg.SSLMode,
	)

	// =========
	// Migrate
	// =========
	m, err := migrate.New("file://db/migrations", pgDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal(err)
	}

	// ============
	// Init DB client
	// ============
	client, err := db.NewSQLClient("postgres", pgDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	// ============
	// Cache
	// ============
	redisAddr := config.Redis.Host + ":" + config.Redis.Port
	redis := cache.NewRedisCache(redisAddr)

	// ============
	// ID generator
	// ============
	ids, err := idgen.NewSnowflakeGenerator(1)
	if err != nil {
		log.Fatal(err)
	}

	// ============
	// Social login manager
	// ============
	manager := social.NewManager(
		social.NewStateStore(redis, stateTTL),
		social.NewInMemorySessionStore(),
		ids,
		zlogger,
		social.WithUserStore(identity.NewStore(client)),
	)
	defer manager.Close()

	if err := registerProviders(context.Background(), manager, &config.OAuth2); err != nil {
		log.Fatal(err)
	}

	// ============
	// HTTP
	// ============
	r := gin.Default()
	r.Use(otelgin.Middleware(config.Observability.ServiceName))
	r.Use(TraceLoggerMiddleware(zlogger))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := r.Group("/auth")
	{
		auth.GET("/providers", social.ProvidersHandler(manager))
		auth.GET("/:provider", social.AuthHandler(manager))
		auth.GET("/:provider/callback", social.CallbackHandler(manager))
	}

	protected := r.Group("/auth")
	protected.Use(social.AuthMiddleware(manager))
	{
		protected.GET("/me", social.MeHandler(manager))
		protected.POST("/refresh", social.RefreshHandler(manager))
		protected.POST("/logout", social.LogoutHandler(manager))
	}

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerProviders wires every provider whose credentials are
// present; missing credentials skip the provider rather than fail.
func registerProviders(ctx context.Context, manager *social.Manager, oauth2Cfg *cfg.OAuth2Config) error {
	if oauth2Cfg.GithubClientID != "" && oauth2Cfg.GithubClientSecret != "" {
		driver, err := social.NewDriver(social.GitHub{}, social.Config{
			ClientID:     oauth2Cfg.GithubClientID,
			ClientSecret: oauth2Cfg.GithubClientSecret,
			RedirectURL:  oauth2Cfg.GithubRedirectURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create GitHub driver: %w", err)
		}
		manager.Register(driver)
	}

	if oauth2Cfg.FacebookClientID != "" && oauth2Cfg.FacebookClientSecret != "" {
		driver, err := social.NewDriver(social.Facebook{}, social.Config{
			ClientID:     oauth2Cfg.FacebookClientID,
			ClientSecret: oauth2Cfg.FacebookClientSecret,
			RedirectURL:  oauth2Cfg.FacebookRedirectURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create Facebook driver: %w", err)
		}
		manager.Register(driver)
	}

	if oauth2Cfg.GoogleClientID != "" && oauth2Cfg.GoogleClientSecret != "" {
		driver, err := social.NewGoogleOIDC(ctx, social.Config{
			ClientID:     oauth2Cfg.GoogleClientID,
			ClientSecret: oauth2Cfg.GoogleClientSecret,
			RedirectURL:  oauth2Cfg.GoogleRedirectURL,
		})
		if err != nil {
			return fmt.Errorf("failed to create Google driver: %w", err)
		}
		manager.Register(driver)
	}

	return nil
}

// TraceLoggerMiddleware extracts trace_id and span_id from the request context and attaches it to logger
func TraceLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			traceID := span.SpanContext().TraceID().String()
			spanID := span.SpanContext().SpanID().String()

			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)

			log.Info("incoming request",
				logger.Field{Key: "trace_id", Value: traceID},
				logger.Field{Key: "span_id", Value: spanID},
				logger.Field{Key: "method", Value: c.Request.Method},
				logger.Field{Key: "path", Value: c.Request.URL.Path},
			)
		}

		c.Next()
	}
}

// initOtel initializes OpenTelemetry tracer and meter with OTLP exporter
func initOtel(ctx context.Context, config *cfg.ObservabilityConfig, log logger.Logger) (func(context.Context) error, error) {
	conn, err := grpc.NewClient(
		config.OTLPEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.DeploymentEnvironment(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	mp := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter)),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("OpenTelemetry initialized - sending to OTLP collector",
		logger.Field{Key: "otlp_endpoint", Value: config.OTLPEndpoint},
	)

	shutdown := func(ctx context.Context) error {
		var errs []error

		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown failed: %w", err))
		}

		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown failed: %w", err))
		}

		if len(errs) > 0 {
			return fmt.Errorf("otel shutdown errors: %v", errs)
		}
		return nil
	}

	return shutdown, nil
}
