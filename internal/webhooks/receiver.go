package webhooks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/congo-pay/payout_demo/internal/notification"
	"github.com/congo-pay/payout_demo/internal/store"
)

const (
	// TopicOnboarding identifies onboarding status callbacks.
	TopicOnboarding = "onboarding"
	// TopicReturn identifies payment return callbacks.
	TopicReturn = "return"
	// TopicReversal identifies payment reversal callbacks.
	TopicReversal = "reversal"
)

// Receiver turns webhook events into notifications. Deliveries are not
// deduplicated: the same payload sent twice is reported twice.
type Receiver struct {
	notifier notification.Notifier
	activity store.Repository
	logger   *slog.Logger
}

// NewReceiver builds a receiver. activity may be nil.
func NewReceiver(notifier notification.Notifier, activity store.Repository, logger *slog.Logger) *Receiver {
	return &Receiver{notifier: notifier, activity: activity, logger: logger}
}

// Receive dispatches ev for topic and records it. raw is kept in the activity trail.
func (r *Receiver) Receive(ctx context.Context, topic string, ev Event, raw []byte) error {
	var (
		msg notification.Message
		ok  bool
	)
	switch topic {
	case TopicOnboarding:
		msg, ok = OnboardingMessage(ev)
	case TopicReturn:
		msg, ok = ReturnMessage(ev), true
	case TopicReversal:
		msg, ok = ReversalMessage(ev), true
	default:
		return fmt.Errorf("unknown webhook topic %q", topic)
	}

	if ok && r.notifier != nil {
		if err := r.notifier.Send(ctx, msg); err != nil && r.logger != nil {
			r.logger.Warn("webhook notification failed", slog.String("topic", topic), slog.Any("error", err))
		}
	}

	if r.activity != nil {
		err := r.activity.Record(ctx, store.Activity{
			Kind:      store.KindWebhook,
			Topic:     topic,
			Reference: reference(topic, ev),
			Status:    ev.Data.Status,
			Amount:    ev.Data.Amount,
			Payload:   string(raw),
		})
		if err != nil && r.logger != nil {
			r.logger.Warn("record webhook activity", slog.String("topic", topic), slog.Any("error", err))
		}
	}
	return nil
}

// OnboardingMessage reports approvals only; other statuses produce no message.
func OnboardingMessage(ev Event) (notification.Message, bool) {
	if ev.Data.Status != StatusApproved {
		return notification.Message{}, false
	}
	return notification.Message{
		Kind:        notification.KindOnboardingApproved,
		Destination: ev.Data.ID,
		Body:        "Approved!",
	}, true
}

// ReturnMessage describes a return as it moves through the return pipeline.
func ReturnMessage(ev Event) notification.Message {
	d := ev.Data
	switch d.Status {
	case StatusPending:
		return notification.Message{
			Kind:        notification.KindReturnPending,
			Destination: d.ReturnableID,
			Body:        fmt.Sprintf("A return for %d has just been processed for the following reason: %s", d.Amount, d.Reason),
		}
	case StatusCompleted:
		return notification.Message{
			Kind:        notification.KindReturnCompleted,
			Destination: d.ReturnableID,
			Body:        fmt.Sprintf("The return for %s has been completed for the amount of %d", d.ReturnableID, d.Amount),
		}
	default:
		return notification.Message{
			Kind:        notification.KindReturnStatus,
			Destination: d.ReturnableID,
			Body:        fmt.Sprintf("Current return status for %s is %s", d.ReturnableID, d.Status),
		}
	}
}

// ReversalMessage describes a reversal as it moves through the reversal pipeline.
func ReversalMessage(ev Event) notification.Message {
	d := ev.Data
	switch d.Status {
	case StatusPending:
		return notification.Message{
			Kind:        notification.KindReversalPending,
			Destination: d.PaymentOrderID,
			Body:        fmt.Sprintf("A reversal for %s has just been processed for the following reason: %s", d.PaymentOrderID, d.Reason),
		}
	case StatusCompleted:
		return notification.Message{
			Kind:        notification.KindReversalCompleted,
			Destination: d.PaymentOrderID,
			Body:        fmt.Sprintf("The reversal for %s has been completed.", d.PaymentOrderID),
		}
	default:
		return notification.Message{
			Kind:        notification.KindReversalStatus,
			Destination: d.PaymentOrderID,
			Body:        fmt.Sprintf("Current reversal status for %s is %s", d.PaymentOrderID, d.Status),
		}
	}
}

func reference(topic string, ev Event) string {
	switch topic {
	case TopicReturn:
		if ev.Data.ReturnableID != "" {
			return ev.Data.ReturnableID
		}
	case TopicReversal:
		if ev.Data.PaymentOrderID != "" {
			return ev.Data.PaymentOrderID
		}
	}
	return ev.Data.ID
}
