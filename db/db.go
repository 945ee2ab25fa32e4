package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mralligator/appointment-scheduler/logging"
)

// Open establishes the DB connection without running migrations
func Open(dbURL string, logger *logging.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if dbURL == "" {
		return nil, fmt.Errorf("db: DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}
