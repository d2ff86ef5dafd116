package infrastructure

import (
	"fmt"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
)

// SentryHook forwards error level log entries to Sentry
type SentryHook struct {
	hub *sentry.Hub
}

// NewSentryHook creates a hook reporting through hub, or the current hub when nil
func NewSentryHook(hub *sentry.Hub) *SentryHook {
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return &SentryHook{hub: hub}
}

func (h *SentryHook) Levels() []log.Level {
	return []log.Level{
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func (h *SentryHook) Fire(entry *log.Entry) error {
	hub := h.hub.Clone()

	hub.WithScope(func(s *sentry.Scope) {
		s.SetLevel(sentryLevel(entry.Level))
		for k, v := range entry.Data {
			switch k {
			case "guild_id":
				s.SetTag("guild_id", fmt.Sprint(v))
			case log.ErrorKey:
			default:
				s.SetExtra(k, fmt.Sprint(v))
			}
		}

		if err, ok := entry.Data[log.ErrorKey].(error); ok {
			s.SetExtra("message", entry.Message)
			hub.CaptureException(err)
			return
		}
		hub.CaptureMessage(entry.Message)
	})
	return nil
}

func sentryLevel(level log.Level) sentry.Level {
	switch level {
	case log.FatalLevel, log.PanicLevel:
		return sentry.LevelFatal
	default:
		return sentry.LevelError
	}
}
