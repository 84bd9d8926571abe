package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gartstein/talent-verify/internal/registry/audit"
	"github.com/gartstein/talent-verify/internal/registry/controller"
	"github.com/gartstein/talent-verify/internal/registry/db"
	"github.com/gartstein/talent-verify/internal/registry/events"
	"github.com/gartstein/talent-verify/internal/registry/handlers"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort     int      `yaml:"HTTP_PORT"`
	HTTPTimeout  int      `yaml:"HTTP_TIMEOUT"`
	DBHost       string   `yaml:"DB_HOST"`
	DBPort       int      `yaml:"DB_PORT"`
	DBUser       string   `yaml:"DB_USER"`
	DBPassword   string   `yaml:"DB_PASSWORD"`
	DBName       string   `yaml:"DB_NAME"`
	DBSSLMode    string   `yaml:"DB_SSLMODE"`
	KafkaBrokers []string `yaml:"KAFKA_BROKERS"`
	Topic        string   `yaml:"TOPIC"`
	JWTSecret    string   `yaml:"JWT_SECRET"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer := initProducer(cfg, logger)
	if kafkaProducer, ok := producer.(*events.Producer); ok {
		defer kafkaProducer.Close()
	}

	audits := controller.NewAuditService(repo, logger)
	svcs := handlers.Services{
		Accounts:  controller.NewAccountService(repo, cfg.JWTSecret, logger),
		Companies: controller.NewCompanyService(repo, producer, logger),
		Employees: controller.NewEmployeeService(repo, producer, logger),
		Profiles:  controller.NewProfileService(repo, producer, logger),
		Audits:    audits,
		Search:    controller.NewSearchService(repo, logger),
		Imports:   controller.NewImportService(repo, logger),
	}

	server := handlers.NewServer(handlers.ServerConfig{
		Port:    cfg.HTTPPort,
		Timeout: cfg.HTTPTimeout,
	}, logger)
	handlers.RegisterRoutes(server.Echo(), svcs, cfg.JWTSecret, repo, audit.NewRecorder(audits, logger), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = filepath.Join("internal", "registry", "config", "config.yaml")
	}
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase initializes the database connection settings.
func initDatabase(cfg *Config) *db.Config {
	return &db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// initProducer connects the Kafka producer, or falls back to a no-op
// producer when no brokers are configured.
func initProducer(cfg *Config, logger *zap.Logger) controller.EventProducer {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("no kafka brokers configured, events disabled")
		return controller.NopProducer{}
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize kafka producer", zap.Error(err))
	}
	return producer
}

// waitForShutdown blocks until an interrupt or SIGTERM is received,
// then drains the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("failed to shut down server", zap.Error(err))
	}
	logger.Info("server stopped properly")
}
