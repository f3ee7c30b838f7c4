package workers

import (
	"context"
	"log/slog"
	"time"

	"open-invite/contract"
	"open-invite/domain/event"
)

// EventFanout broadcasts session events to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. EventFanout is not a message broker.
// It is intended for side effects (archive, logs, metrics), not for core
// session logic: a slow or failing sink never blocks a session mutation.
type EventFanout struct {
	log         *slog.Logger
	events      chan event.DomainEvent
	sinks       []contract.EventSink
	sinkTimeout time.Duration
}

func NewEventFanout(log *slog.Logger, events chan event.DomainEvent, sinkTimeout time.Duration, sinks ...contract.EventSink) *EventFanout {
	return &EventFanout{log: log, events: events, sinkTimeout: sinkTimeout, sinks: sinks}
}

func (w *EventFanout) Add(sinks ...contract.EventSink) *EventFanout {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return ctx.Err()
		case evt, ok := <-w.events:
			if !ok {
				return nil
			}
			w.fanout(ctx, evt)
		}
	}
}

// fanout delivers one event to every sink, each under its own timeout.
func (w *EventFanout) fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink failed to consume event", "host", evt.HostID(), "err", err)
		}
		cancel()
	}
}
