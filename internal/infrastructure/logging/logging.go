package logging

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/youcode/tricol-fournisseurs/internal/config"
)

// Setup configures the global logrus logger from the log settings.
// Unknown levels fall back to info.
func Setup(cfg config.LogConfig) {
	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
