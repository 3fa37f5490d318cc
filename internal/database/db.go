package database

import (
	"fmt"
	"time"

	"grillmaster-pos/internal/models"

	"github.com/op/go-logging"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var log = logging.MustGetLogger("database")

const (
	connectAttempts = 5
	retryDelay      = 2 * time.Second
)

// Connect opens driver ("sqlite" or "mysql") at dsn and migrates the schema.
// MySQL may still be starting when the terminal boots, so the first
// connection is retried a few times.
func Connect(driver, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is empty")
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Warningf("Failed to connect to database. Retrying in %s... (%d/%d)", retryDelay, i+1, connectAttempts)
		time.Sleep(retryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", driver, connectAttempts, err)
	}
	log.Infof("Connected to %s", driver)

	if err := db.AutoMigrate(&models.User{}, &StorageEntry{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("Database schema synced")
	return db, nil
}
