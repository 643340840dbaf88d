package hugchat

import (
	"context"
	"io"
)

// Producer is the source of raw chat events a Message consumes. How events
// come into existence (an HTTP streaming body, a scripted replay, a mock) is
// the transport layer's concern; the Message only pulls, and never manages
// the producer's lifecycle.
//
// Types used by this interface:
//   - Event: defined in events.go
//
// Usage:
//
//	msg := hugchat.NewMessage(producer, hugchat.MessageOptions{})
//	for msg.Next(ctx) {
//	  ev := msg.Current() // process
//	}
//	if msg.Status() == hugchat.StatusRejected { handle msg.Err() }
type Producer interface {
	// Pull blocks until the next event is available and returns it.
	// Returns io.EOF once the producer is exhausted; any other error is a
	// transport failure and is captured verbatim on the Message.
	Pull(ctx context.Context) (Event, error)

	// Send resumes the producer with an injected value and returns the
	// event it yields in response. Pure pull sources return ErrNotResumable.
	Send(ctx context.Context, v any) (Event, error)

	// Cancel injects a cancellation (or error) signal into the producer and
	// returns whatever it yields while shutting down; io.EOF on a clean
	// stop. The caller does not retry on injection failure.
	Cancel(ctx context.Context, cause error) (Event, error)
}

// ProducerFunc adapts a pull function to the Producer interface.
// Send and Cancel report ErrNotResumable.
type ProducerFunc func(ctx context.Context) (Event, error)

func (f ProducerFunc) Pull(ctx context.Context) (Event, error) {
	return f(ctx)
}

func (f ProducerFunc) Send(context.Context, any) (Event, error) {
	return Event{}, ErrNotResumable
}

func (f ProducerFunc) Cancel(context.Context, error) (Event, error) {
	return Event{}, ErrNotResumable
}

// SliceProducer replays a fixed sequence of events and then reports io.EOF.
// It records injected values and the cancellation cause, which makes it
// useful as a canned producer in tests.
type SliceProducer struct {
	events      []Event
	pos         int
	sent        []any
	cancelCause error
	cancelled   bool
}

// NewSliceProducer creates a producer that yields the given events in order.
func NewSliceProducer(events ...Event) *SliceProducer {
	return &SliceProducer{events: events}
}

// Pull returns the next canned event, or io.EOF when the sequence is
// exhausted or the producer was cancelled.
func (p *SliceProducer) Pull(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if p.cancelled || p.pos >= len(p.events) {
		return Event{}, io.EOF
	}
	ev := p.events[p.pos]
	p.pos++
	return ev, nil
}

// Send records the injected value and yields the next canned event.
func (p *SliceProducer) Send(ctx context.Context, v any) (Event, error) {
	p.sent = append(p.sent, v)
	return p.Pull(ctx)
}

// Cancel records the cause and stops the sequence.
func (p *SliceProducer) Cancel(ctx context.Context, cause error) (Event, error) {
	p.cancelled = true
	p.cancelCause = cause
	return Event{}, io.EOF
}

// Sent returns the values injected via Send, in order.
func (p *SliceProducer) Sent() []any {
	return p.sent
}

// CancelCause returns the signal passed to Cancel, or nil if the producer
// was never cancelled.
func (p *SliceProducer) CancelCause() error {
	return p.cancelCause
}
