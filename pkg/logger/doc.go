// Package logger provides the structured logging interface used across
// marketpulse.
//
// It wraps zerolog with a small Logger interface so components can accept
// any implementation, including NewNopLogger and the capturing TestLogger.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//	log := logger.GetLogger().WithField("hashtag", "nifty50")
//	log.Info("Crawl started")
//
// Console output is coloured. When a log file is configured every entry is
// also appended to that file.
package logger
