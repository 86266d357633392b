// Package logging contains logrus helpers.
package logging

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

// SentryHook is a logrus hook which sends entries of the given levels to sentry.
type SentryHook struct {
	levels []logrus.Level
}

// NewSentryHook initializes sentry client and creates new instance of SentryHook.
func NewSentryHook(opts sentry.ClientOptions, levels ...logrus.Level) (*SentryHook, error) {
	if err := sentry.Init(opts); err != nil {
		return nil, fmt.Errorf("failed to init sentry: %w", err)
	}

	return &SentryHook{
		levels: levels,
	}, nil
}

// Levels ...
func (h SentryHook) Levels() []logrus.Level {
	return h.levels
}

// Fire ...
func (h SentryHook) Fire(e *logrus.Entry) error {
	event := sentry.NewEvent()
	event.Level = toSentryLevel(e.Level)
	event.Message = e.Message
	event.Timestamp = e.Time

	for k, v := range e.Data {
		if k == logrus.ErrorKey {
			if err, ok := v.(error); ok {
				event.Message = fmt.Sprintf("%s: %s", event.Message, err.Error())
				continue
			}
		}
		event.Extra[k] = v
	}

	sentry.CaptureEvent(event)

	if e.Level <= logrus.FatalLevel {
		sentry.Flush(2 * time.Second)
	}

	return nil
}

func toSentryLevel(l logrus.Level) sentry.Level {
	switch l {
	case logrus.PanicLevel, logrus.FatalLevel:
		return sentry.LevelFatal
	case logrus.ErrorLevel:
		return sentry.LevelError
	case logrus.WarnLevel:
		return sentry.LevelWarning
	case logrus.DebugLevel, logrus.TraceLevel:
		return sentry.LevelDebug
	default:
		return sentry.LevelInfo
	}
}
