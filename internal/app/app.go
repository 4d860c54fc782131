package app

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"go-lams/internal/shared/apperror"
	"go-lams/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret string
	TokenTTL  time.Duration

	BlobDir string
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// LoadConfig reads process environment. Call godotenv in main first if a
// .env file should be honored.
func LoadConfig() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		DBHost:      envOr("DB_HOST", "localhost"),
		DBUser:      envOr("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      envOr("DB_NAME", "lams"),
		DBPort:      envOr("DB_PORT", "5432"),
		DBSSLMode:   envOr("DB_SSLMODE", "disable"),
		RedisAddr:   envOr("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: envOr("KAFKA_BROKER", "localhost:9092"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    8 * time.Hour,
		BlobDir:     envOr("BLOB_DIR", "./data/attachments"),
	}
}

// Deps holds the shared infrastructure handles the module registry wires
// repositories and services from.
type Deps struct {
	Config Config
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
	Logger *zap.Logger
}

func BuildApp(cfg Config, logger *zap.Logger) (*gin.Engine, *Deps, error) {
	if cfg.JWTSecret == "" {
		return nil, nil, fmt.Errorf("JWT_SECRET is required")
	}

	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return nil, nil, err
	}

	deps := &Deps{
		Config: cfg,
		GormDB: gormDB,
		SQLDB:  sqlDB,
		Redis:  rdb,
		Logger: logger,
	}

	apperror.Init()

	router := gin.New()
	router.Use(gin.Recovery())

	if err := registerModules(router, deps); err != nil {
		return nil, nil, err
	}
	return router, deps, nil
}
