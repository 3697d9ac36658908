// config/logger.go
package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// InitLogger configures the shared logger. LOG_LEVEL accepts any logrus level
// name and falls back to info.
func InitLogger() {
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Logger.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

func ParseLevel(raw string) logrus.Level {
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		Logger.Warnf("Unknown LOG_LEVEL %q, using info", raw)
		return logrus.InfoLevel
	}
	return level
}
