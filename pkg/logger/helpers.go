package logger

import (
	"time"
)

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, config map[string]interface{}) {
	l = l.WithField("component", component)
	if len(config) > 0 {
		l = l.WithFields(config)
	}
	l.Info("Component started")
}

// LogComponentStop logs when a component stops
func LogComponentStop(l Logger, component string, reason string) {
	l.WithFields(map[string]interface{}{
		"component": component,
		"reason":    reason,
	}).Info("Component stopped")
}

// LogCrawlOutcome logs the terminal state of one hashtag crawl. Aborted
// crawls are logged as warnings with their cause.
func LogCrawlOutcome(l Logger, hashtag, reason string, collected int, elapsed time.Duration, err error) {
	fields := map[string]interface{}{
		"hashtag":   hashtag,
		"reason":    reason,
		"collected": collected,
		"elapsed":   elapsed.Round(time.Millisecond).String(),
	}
	if err != nil {
		l.WithError(err).WarnWithFields("Hashtag crawl aborted, nothing saved", fields)
		return
	}
	l.InfoWithFields("Hashtag crawl finished", fields)
}

// LogCooldown logs a pacing pause that is long enough to be noticed
func LogCooldown(l Logger, kind string, d time.Duration) {
	l.WithFields(map[string]interface{}{
		"pause":    kind,
		"duration": d.Round(time.Second).String(),
	}).Info("Cooling down")
}
