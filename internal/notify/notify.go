package notify

import (
	"context"

	"go.uber.org/zap"

	"leadbox/config"
	"leadbox/internal/model"
	"leadbox/pkg/metrics"
)

// Sink is one external notification target.
type Sink interface {
	Name() string
	Send(ctx context.Context, email *model.Email) error
}

// Dispatcher fans an interested email out to the configured sinks. Every
// sink is best-effort: one failing never prevents the others from being
// attempted, and no failure escalates to the classification cycle.
type Dispatcher struct {
	sinks  []Sink
	logger *zap.Logger
}

func NewDispatcher(cfg config.NotifyConfig, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{logger: logger}

	// unset chat webhook means the sink is disabled, not an error
	if cfg.ChatWebhookURL != "" {
		d.sinks = append(d.sinks, NewChatSink(cfg.ChatWebhookURL, cfg.Timeout))
	} else {
		logger.Info("Chat webhook not configured, chat sink disabled")
	}
	d.sinks = append(d.sinks, NewEventWebhookSink(cfg.EventWebhookURL, cfg.Timeout))

	return d
}

// Notify dispatches iff the category crossed the notify policy
// threshold: only interested leads fan out.
func (d *Dispatcher) Notify(ctx context.Context, email *model.Email, category model.Category) {
	if category != model.CategoryInterested {
		return
	}

	d.logger.Info("Dispatching notifications for interested email",
		zap.String("email_id", email.ID.String()),
		zap.Int("sinks", len(d.sinks)),
	)

	for _, sink := range d.sinks {
		if err := sink.Send(ctx, email); err != nil {
			metrics.RecordNotificationSinkFailure(sink.Name())
			d.logger.Error("Notification sink failed",
				zap.String("sink", sink.Name()),
				zap.String("email_id", email.ID.String()),
				zap.Error(err),
			)
		}
	}
}
