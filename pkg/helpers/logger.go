package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// staticFields stamps every entry with the service identity so JSON logs
// from the API, the worker and the seeder can be told apart.
type staticFields logrus.Fields

func (staticFields) Levels() []logrus.Level { return logrus.AllLevels }

func (h staticFields) Fire(e *logrus.Entry) error {
	for k, v := range h {
		if _, ok := e.Data[k]; !ok {
			e.Data[k] = v
		}
	}
	return nil
}

// NewLogger creates a configured Logrus logger. LOG_LEVEL overrides the
// environment default.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			logger.SetLevel(parsed)
		} else {
			logger.WithField("LOG_LEVEL", lvl).Warn("unknown log level, keeping default")
		}
	}
	logger.AddHook(staticFields{"app": appName, "env": env})
	logger.Debug("logger initialized")
	return logger
}
