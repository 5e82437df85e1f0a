package bootstrap

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/roomify-app/roomify-backend/config"
)

// NewLogger writes JSON in production and colored text elsewhere. An unknown
// level falls back to info.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	log := logrus.New()
	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("log_level", cfg.LogLevel).Warn("unknown log level, using info")
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}
