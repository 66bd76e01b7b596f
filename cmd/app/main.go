package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"tablesync/cmd"
	"tablesync/internal/adapters/out/localstore"
	"tablesync/internal/adapters/out/postgres"
	"tablesync/internal/adapters/out/redisfeed"
	"tablesync/internal/core/domain/services"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	configs := getConfigs()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gormDB, err := gorm.Open(gormpostgres.Open(dsn(configs)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Failed to connect to the remote store: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate the remote store: %v", err)
	}

	localDB, err := localstore.Open(configs.LocalDBPath)
	if err != nil {
		log.Fatalf("Failed to open the local store: %v", err)
	}
	if configs.DeviceID == "" {
		if configs.DeviceID, err = localstore.NewSettings(localDB).DeviceID(ctx); err != nil {
			log.Fatalf("Failed to read the device ID: %v", err)
		}
	}

	var rdb *redis.Client
	if configs.RedisURL != "" {
		if rdb, err = redisfeed.Connect(ctx, configs.RedisURL); err != nil {
			logger.WarnContext(ctx, "Redis unavailable, falling back to polling", "error", err)
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, localDB, rdb, logger.With("device_id", configs.DeviceID))
	if err != nil {
		log.Fatalf("Failed to build the application: %v", err)
	}
	if err = app.Start(ctx); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	startWebServer(ctx, app, configs.HTTPPort)
	app.Wait()
	logger.Info("Device stopped")
}

func getConfigs() cmd.Config {
	// .env is optional; the process environment always wins.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:             envOr("HTTP_PORT", "8080"),
		DBHost:               envOr("DB_HOST", "localhost"),
		DBPort:               envOr("DB_PORT", "5432"),
		DBUser:               envOr("DB_USER", "postgres"),
		DBPassword:           os.Getenv("DB_PASSWORD"),
		DBName:               envOr("DB_NAME", "tablesync"),
		DBSslMode:            envOr("DB_SSLMODE", "disable"),
		LocalDBPath:          envOr("LOCAL_DB_PATH", "tablesync-device.db"),
		DeviceID:             os.Getenv("DEVICE_ID"),
		DeviceWaitress:       os.Getenv("DEVICE_WAITRESS"),
		RedisURL:             os.Getenv("REDIS_URL"),
		PrinterDriver:        envOr("PRINTER_DRIVER", "stdout"),
		PrinterAddress:       os.Getenv("PRINTER_ADDRESS"),
		PrinterFile:          envOr("PRINTER_FILE", "tickets.txt"),
		TicketWidth:          envInt("TICKET_WIDTH", services.DefaultTicketWidth),
		FeedPollSpec:         envOr("FEED_POLL_SPEC", "* * * * * *"),
		NotificationPollSpec: envOr("NOTIFICATION_POLL_SPEC", "*/15 * * * * *"),
		RemoteTimeout:        envDuration("REMOTE_TIMEOUT", 5*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v", key, err)
	}
	return v
}

func dsn(c cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.HideBanner = true
	app.CreateServer().RegisterRoutes(e)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			e.Logger.Error(err)
		}
	}()

	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
