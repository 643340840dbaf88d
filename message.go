// Package hugchat implements the client-side event stream core for a
// HuggingChat-style chat service. A Message wraps an externally supplied
// Producer of raw events and exposes it as a single pull-based stream with a
// well-defined terminal state: it classifies each event, accumulates streamed
// text and search citations, captures failure signals embedded in otherwise
// well-formed payloads, and offers both incremental (Next/Current) and
// blocking (WaitUntilDone) consumption over the same producer.
package hugchat

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// MessageStatus is the tri-state lifecycle of a Message.
type MessageStatus int

const (
	// StatusPending means the turn is still running.
	StatusPending MessageStatus = iota

	// StatusResolved means a final answer arrived.
	StatusResolved

	// StatusRejected means a failure was captured; see Message.Err.
	StatusRejected
)

// String returns the string representation of the status.
func (s MessageStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusResolved:
		return "resolved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further advancement can occur.
func (s MessageStatus) Terminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// MessageOptions configure a Message at construction.
type MessageOptions struct {
	// YieldAll surfaces every classified event during iteration, not only
	// stream tokens.
	YieldAll bool

	// WebSearch records that the request asked for a web search. The search
	// phase then starts incomplete and concludes on the first stream token;
	// without it the phase is complete from the start.
	WebSearch bool
}

// Message is the event stream reader for one chat turn. It is mutated only by
// its own advance step, assumes a single consumer, and performs no locking;
// callers needing concurrent access must serialize externally. Once the
// status is terminal the accumulated state is read-only.
type Message struct {
	producer Producer
	yieldAll bool

	current     Event
	finalAnswer string
	sources     []WebSearchSource
	searchDone  bool
	status      MessageStatus
	err         error
}

// NewMessage wraps a producer for one chat turn.
func NewMessage(p Producer, opts MessageOptions) *Message {
	return &Message{
		producer: p,
		yieldAll: opts.YieldAll,
		// Each message gets its own container: a shared default slice would
		// leak one turn's citations into the next.
		sources:    []WebSearchSource{},
		searchDone: !opts.WebSearch,
	}
}

// advance pulls and classifies exactly one event. The returned bool reports
// whether the event is surfaced to the iterating caller. Once the status is
// terminal, advance never touches the producer again.
func (m *Message) advance(ctx context.Context) (Event, bool) {
	if m.status.Terminal() {
		return Event{}, false
	}

	ev, err := m.producer.Pull(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			// Exhaustion without a final answer leaves the turn unanswerable.
			m.reject(ErrStreamEnded)
		} else {
			m.reject(err)
		}
		return Event{}, false
	}

	switch ev.Type {
	case EventStream:
		// A streamed token implies the search phase has ended.
		m.searchDone = true

	case EventStatus:
		// Heartbeat, no state change.

	case EventFinalAnswer:
		m.finalAnswer = ev.Text
		m.status = StatusResolved
		m.producer = nil

	case EventWebSearch:
		if ev.HasSources {
			// The latest batch replaces the previous one wholesale.
			m.sources = ev.Sources
		}

	default:
		m.classifyFailure(ev)
	}

	return ev, m.yieldAll || ev.Type == EventStream
}

// classifyFailure inspects an unrecognized payload for embedded error
// signals, in priority order: overload marker, explicit error field, then
// plain unrecognized. All three reject the message; a reader left pending on
// an uninterpretable payload could never resolve.
func (m *Message) classifyFailure(ev Event) {
	switch {
	case strings.Contains(string(ev.Raw), overloadedMarker):
		m.reject(&OverloadedError{Raw: ev.Raw})
	case gjson.GetBytes(ev.Raw, "error").Exists():
		m.reject(&ProtocolError{
			Reason: gjson.GetBytes(ev.Raw, "error").String(),
			Raw:    ev.Raw,
		})
	default:
		m.reject(&UnrecognizedResponseError{Raw: ev.Raw})
	}
}

// reject captures the failure and releases the producer reference; the
// accumulated state stays readable.
func (m *Message) reject(err error) {
	m.err = err
	m.status = StatusRejected
	m.producer = nil
}

// Next advances the stream until an event is surfaced or the status becomes
// terminal. It returns false once no further events will be surfaced; callers
// should then check Status and Err. Iteration is non-restartable and assumes
// a single consumer.
//
// Usage:
//
//	for msg.Next(ctx) {
//	  fmt.Print(msg.Current().Token)
//	}
//	if msg.Status() == hugchat.StatusRejected {
//	  return msg.Err()
//	}
func (m *Message) Next(ctx context.Context) bool {
	for !m.status.Terminal() {
		ev, surfaced := m.advance(ctx)
		if surfaced {
			m.current = ev
			return true
		}
	}
	return false
}

// Current returns the most recently surfaced event.
func (m *Message) Current() Event {
	return m.current
}

// WaitUntilDone drives the stream to completion and returns the final answer.
// On rejection it returns the captured error; transport failures come back
// verbatim, so errors.Is/As work against the producer's own error values.
func (m *Message) WaitUntilDone(ctx context.Context) (string, error) {
	for !m.status.Terminal() {
		m.advance(ctx)
	}
	if m.status == StatusResolved {
		return m.finalAnswer, nil
	}
	if m.err != nil {
		return "", m.err
	}
	return "", ErrRejectedNoError
}

// Send resumes the underlying producer with an injected value and returns the
// event it yields in response. The injected event does not pass through the
// classifier; callers using Send drive the producer directly. Once the status
// is terminal the producer reference has been released and Send reports
// io.EOF.
func (m *Message) Send(ctx context.Context, v any) (Event, error) {
	if m.producer == nil {
		return Event{}, io.EOF
	}
	return m.producer.Send(ctx, v)
}

// Cancel forwards a cancellation signal into the underlying producer and
// returns whatever it yields while shutting down. No retry is attempted on
// injection failure. Reports io.EOF once the status is terminal.
func (m *Message) Cancel(ctx context.Context, cause error) (Event, error) {
	if m.producer == nil {
		return Event{}, io.EOF
	}
	return m.producer.Cancel(ctx, cause)
}

// Status returns the message lifecycle state.
func (m *Message) Status() MessageStatus {
	return m.status
}

// SearchComplete reports whether the search phase has concluded. This is
// distinct from overall completion: it flips on the first streamed token,
// well before the status turns terminal.
func (m *Message) SearchComplete() bool {
	return m.searchDone
}

// FinalAnswer returns the accumulated answer text. It is non-empty only once
// the status is StatusResolved.
func (m *Message) FinalAnswer() string {
	return m.finalAnswer
}

// SearchSources returns the most recent citation batch reported by the
// service. It is the latest batch, not an accumulation across events.
func (m *Message) SearchSources() []WebSearchSource {
	return m.sources
}

// Err returns the captured failure, non-nil exactly when the status is
// StatusRejected.
func (m *Message) Err() error {
	return m.err
}
