package sqlstore

import (
	"context"
	"fmt"

	"hermes/hermes/config"
	"hermes/hermes/sources/sqlstore/dao"
	"hermes/hermes/utils/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the interaction log store for cfg.DBDriver and makes sure
// its schema exists.
func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite, "":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown db driver: %s", cfg.DBDriver)
	}
	db, err := Open(ctx, dialector)
	if err != nil {
		return nil, err
	}
	logging.AppLogger.Info("interaction store ready",
		zap.String("driver", db.DB.Dialector.Name()))
	return db, nil
}

// Open connects with an arbitrary dialector and ensures the schema.
func Open(ctx context.Context, dialector gorm.Dialector) (*Database, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open interaction store: %w", err)
	}
	if db.Dialector.Name() == "sqlite" {
		// one writer at a time; also keeps ":memory:" on a single database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := dao.NewChatInteractionDAO(db).EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
