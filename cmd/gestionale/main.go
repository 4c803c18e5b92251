package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/crypto/bcrypt"

	"gestionale/internal/config"
	"gestionale/internal/domain"
	"gestionale/internal/infra/database"
	"gestionale/internal/infra/repository"
	"gestionale/internal/infra/storage"
	"gestionale/internal/present/rest"
	restmw "gestionale/internal/present/rest/middleware"
	"gestionale/internal/service"
	"gestionale/internal/usecase"
)

func main() {
	configPath := flag.String("c", "config.yaml", "path to the configuration file")
	seedAdmin := flag.String("seed-admin", "", "create or reset a login account, format email:password:name")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := database.NewSqlite(cfg.Server.SqlitePath)
	if err != nil {
		slog.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = database.MigrateSqlite(db)
	if err != nil {
		slog.Error("Failed to migrate database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)

	if *seedAdmin != "" {
		err := seedAccount(userRepo, *seedAdmin)
		if err != nil {
			slog.Error("Failed to seed account", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	if cfg.Server.EnableTrace {
		shutdown, err := setupTracer(context.Background(), cfg.Server.TraceEndpoint)
		if err != nil {
			slog.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	var sessions service.SessionStore
	switch cfg.Server.SessionBackend {
	case "redis":
		sessions = service.NewRedisSessionStore(database.NewRedis(cfg.Server.RedisAddr, cfg.Server.RedisPassword, cfg.Server.RedisDB))
	case "memcached":
		sessions = service.NewMemcachedSessionStore(database.NewMemcached(cfg.Server.MemcachedAddr))
	default:
		sessions = service.NewMemorySessionStore(cfg.Server.SessionDuration)
	}

	attachments, err := storage.NewAttachmentStore(cfg.Server.UploadDir)
	if err != nil {
		slog.Error("Failed to prepare upload directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	auth := service.NewAuthService(userRepo, sessions, cfg.Server.SessionDuration)

	handler := rest.NewHandler(
		auth,
		usecase.NewAssociationUsecase(repository.NewAssociationRepository(db)),
		usecase.NewContactUsecase(repository.NewContactRepository(db)),
		usecase.NewMeetingUsecase(repository.NewMeetingRepository(db), attachments),
		usecase.NewExportUsecase(repository.NewExportRepository(db), 0),
	)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  func(origin string) (bool, error) { return true, nil },
		AllowCredentials: true,
	}))
	if cfg.Server.EnableTrace {
		e.Use(otelecho.Middleware("gestionale"))
	}

	handler.RegisterRoutes(e, restmw.NewAuthMiddleware(auth))

	e.Static("/uploads", cfg.Server.UploadDir)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  cfg.Server.StaticDir,
		Index: "index.html",
		HTML5: true,
	}))

	e.Logger.Fatal(e.Start(cfg.Server.Addr))
}

// seedAccount replaces any account with the same email, mirroring the
// legacy admin-reset scripts.
func seedAccount(users *repository.UserRepository, spec string) error {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("expected email:password:name, got %q", spec)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(parts[1]), 10)
	if err != nil {
		return err
	}

	err = users.Upsert(context.Background(), domain.User{
		Email:        parts[0],
		PasswordHash: string(hash),
		Nome:         parts[2],
	})
	if err != nil {
		return err
	}

	fmt.Printf("utente configurato: %s\n", parts[0])
	return nil
}

func setupTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("gestionale"),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
