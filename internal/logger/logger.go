package logger

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
// LOG_LEVEL picks the level (default info), LOG_FORMAT=json switches to JSON output.
// It is safe to call multiple times; later calls overwrite previous settings.
func Init() {
	log.SetOutput(os.Stdout)

	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := log.ParseLevel(levelStr); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// L returns the global logger for convenience.
func L() *log.Logger { return log.StandardLogger() }

// WithEvent returns an entry tagged with the webhook event id and conversation.
func WithEvent(eventID, conversationID string) *log.Entry {
	entry := log.NewEntry(L())
	if eventID != "" {
		entry = entry.WithField("event_id", eventID)
	}
	if conversationID != "" {
		entry = entry.WithField("conversation_id", conversationID)
	}
	return entry
}
