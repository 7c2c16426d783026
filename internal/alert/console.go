package alert

import (
	"context"
	"log/slog"
)

// ConsoleNotifier writes alerts to the service log
type ConsoleNotifier struct {
	logger *slog.Logger
}

// NewConsoleNotifier creates a new log-based notifier
func NewConsoleNotifier(logger *slog.Logger) *ConsoleNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleNotifier{logger: logger}
}

// Notify logs the alert. Raised alerts are logged at warn level.
func (n *ConsoleNotifier) Notify(ctx context.Context, a Alert) error {
	level := slog.LevelInfo
	msg := "air quality alert cleared"
	if a.Kind == KindRaised {
		level = slog.LevelWarn
		msg = "air quality alert raised"
	}

	n.logger.Log(ctx, level, msg,
		"station", a.Station,
		"aqi", a.Reading.AQI,
		"level", a.Level.String(),
		"threshold", a.Threshold,
		"timestamp", a.Reading.Timestamp,
	)
	return nil
}
