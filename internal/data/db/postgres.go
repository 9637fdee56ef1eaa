package db

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// New opens the relational store. Postgres is the default; DB_DRIVER=sqlite
// selects a file-backed sqlite database for local development.
func New(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	gormLog := gormLogger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey so the
		// connection registry can report conflicts instead of raw SQL errors.
		TranslateError: true,
		Logger:         gormLog,
	}

	driver := strings.ToLower(envutil.String("DB_DRIVER", "postgres"))
	var (
		database *gorm.DB
		err      error
	)
	switch driver {
	case "sqlite":
		path := envutil.String("SQLITE_PATH", "curalink.db")
		database, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			envutil.String("POSTGRES_USER", "postgres"),
			envutil.String("POSTGRES_PASSWORD", ""),
			envutil.String("POSTGRES_HOST", "localhost"),
			envutil.String("POSTGRES_PORT", "5432"),
			envutil.String("POSTGRES_NAME", "curalink"),
			envutil.String("POSTGRES_SSLMODE", "disable"),
		)
		database, err = gorm.Open(postgres.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	serviceLog.Info("Database connected", "driver", driver)
	return &Service{db: database, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }
