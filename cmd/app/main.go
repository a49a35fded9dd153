package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/idemrepo"
	"fulfillment/internal/adapters/out/postgres/jobrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/unitrepo"
	"fulfillment/internal/adapters/out/postgres/workerrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config := loadConfig(logger)

	db, err := openDatabase(config)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}

	root, err := cmd.NewCompositionRoot(config, db)
	if err != nil {
		log.Fatalf("Composition root failed: %v", err)
	}

	jobManager := root.JobManager(logger)
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Background jobs failed to start: %v", err)
	}
	defer jobManager.StopAll()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	httpin.NewServer(root.HTTPHandlers()).RegisterRoutes(e)

	go func() {
		if serveErr := e.Start("0.0.0.0:" + config.HTTPPort); serveErr != nil {
			logger.Info("HTTP server stopped", "error", serveErr)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
}

func loadConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("No .env file found, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:   envOr("HTTP_PORT", "8080"),
		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: envOr("DB_PASSWORD", "postgres"),
		DBName:     envOr("DB_NAME", "fulfillment"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:        envOr("REDIS_ADDR", "localhost:6379"),
		TrackingCacheTTL: envDuration("TRACKING_CACHE_TTL", 30*time.Second),

		ORSAPIKey: os.Getenv("ORS_API_KEY"),

		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:       envOr("SENDER_EMAIL", "noreply@example.com"),
		SenderName:        envOr("SENDER_NAME", "Fulfillment"),
		EscalationAddress: envOr("ESCALATION_ADDRESS", "dispatch@example.com"),

		WarehouseLat:     envFloat("WAREHOUSE_LAT", 55.75),
		WarehouseLng:     envFloat("WAREHOUSE_LNG", 37.61),
		DeliveryBaseFee:  envInt64("DELIVERY_BASE_FEE", 500),
		DeliveryPerKmFee: envInt64("DELIVERY_PER_KM_FEE", 100),

		ClaimTimeout:     envDuration("CLAIM_TIMEOUT", 60*time.Minute),
		EditWindow:       envDuration("EDIT_WINDOW", 12*time.Hour),
		ETAOverrideLimit: envInt("ETA_OVERRIDE_LIMIT", 3),
	}
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode,
	)
	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&unitrepo.UnitDTO{},
		&unitrepo.HistoryEntryDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.LineItemDTO{},
		&orderrepo.InvoiceDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.ItemDTO{},
		&deliveryrepo.LogDTO{},
		&deliveryrepo.EditLogDTO{},
		&workerrepo.WorkerDTO{},
		&workerrepo.VehicleDTO{},
		&jobrepo.EntryDTO{},
		&outboxrepo.MessageDTO{},
		&idemrepo.RecordDTO{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
