package page

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the pages schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "page.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying pages schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&Page{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithError(err).Error("pages schema migration failed")
		}
		return eris.Wrap(err, "auto migrating pages schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("pages schema migration complete")
	}

	return nil
}
