package notification

import (
	"context"
	"log/slog"
)

const (
	// KindOnboardingApproved is emitted when an onboarding review is approved.
	KindOnboardingApproved = "onboarding.approved"
	// KindReturnPending is emitted when a payment return starts processing.
	KindReturnPending = "return.pending"
	// KindReturnCompleted is emitted when a payment return completes.
	KindReturnCompleted = "return.completed"
	// KindReturnStatus covers every other return status.
	KindReturnStatus = "return.status"
	// KindReversalPending is emitted when a reversal starts processing.
	KindReversalPending = "reversal.pending"
	// KindReversalCompleted is emitted when a reversal completes.
	KindReversalCompleted = "reversal.completed"
	// KindReversalStatus covers every other reversal status.
	KindReversalStatus = "reversal.status"
)

// Message describes a notification payload.
type Message struct {
	Kind        string
	Destination string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications as log lines, the body being the log message.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(ctx context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	attrs := []any{slog.String("kind", message.Kind)}
	if message.Destination != "" {
		attrs = append(attrs, slog.String("destination", message.Destination))
	}
	n.logger.InfoContext(ctx, message.Body, attrs...)
	return nil
}
