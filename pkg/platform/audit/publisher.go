package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Publisher delivers events to a sink, synchronously by default or through a
// bounded buffer when configured. A full buffer drops the event rather than
// blocking a request on the audit path.
type Publisher struct {
	sink  Sink
	clock func() time.Time

	events chan Event
	done   chan struct{}
	once   sync.Once
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer delivers events from a background goroutine through a
// buffer of the given size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan Event, size)
		}
	}
}

// WithClock sets the timestamp source for testability.
func WithClock(clock func() time.Time) PublisherOption {
	return func(p *Publisher) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// NewPublisher constructs a publisher over the given sink.
func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:  sink,
		clock: time.Now,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.events != nil {
		go p.drain()
	}
	return p
}

// Emit records an event. In async mode a full buffer drops the event.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	event.At = p.clock()
	if p.events == nil {
		p.sink.Write(ctx, event)
		return
	}
	select {
	case p.events <- event:
	default:
		// Audit must not stall the request path.
	}
}

// Close drains buffered events and stops the background goroutine.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.events != nil {
			close(p.events)
			<-p.done
		}
	})
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.events {
		p.sink.Write(context.Background(), event)
	}
}

// SlogSink writes events to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink constructs a sink over the given logger.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Write(ctx context.Context, event Event) {
	attrs := append([]any{
		"audit_id", event.ID,
		"action", event.Action,
		"at", event.At.UTC().Format(time.RFC3339),
	}, event.Attrs...)
	s.logger.InfoContext(ctx, "audit event", attrs...)
}
