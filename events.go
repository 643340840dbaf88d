package hugchat

import (
	"github.com/tidwall/gjson"
)

// EventType identifies the category of a wire event.
// Using a typed constant prevents typos and provides compile-time safety.
type EventType string

// Known event discriminants, as sent by the service in the "type" field.
const (
	// EventFinalAnswer carries the complete answer text and ends the turn.
	EventFinalAnswer EventType = "finalAnswer"

	// EventStream carries one incremental answer token.
	EventStream EventType = "stream"

	// EventWebSearch reports web-search progress, optionally with a batch
	// of citation sources.
	EventWebSearch EventType = "webSearch"

	// EventStatus is a heartbeat/progress notification with no payload of
	// interest.
	EventStatus EventType = "status"

	// EventUnrecognized marks a payload whose discriminant matches none of
	// the known event types (or is absent). The raw payload is preserved so
	// the classifier can probe it for embedded error signals.
	EventUnrecognized EventType = ""
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	if t == EventUnrecognized {
		return "unrecognized"
	}
	return string(t)
}

// IsValid returns true if the event type is a known discriminant.
func (t EventType) IsValid() bool {
	switch t {
	case EventFinalAnswer, EventStream, EventWebSearch, EventStatus:
		return true
	default:
		return false
	}
}

// WebSearchSource is one citation reported during the search phase.
// It is a plain value with no identity beyond its fields.
type WebSearchSource struct {
	Title    string `json:"title" yaml:"title"`
	Link     string `json:"link" yaml:"link"`
	Hostname string `json:"hostname" yaml:"hostname"`
}

// Event is a single message emitted by the service during one chat turn.
// Type selects which of the payload fields is meaningful; Raw always holds
// the original JSON payload so callers (and the error classifier) can see
// exactly what arrived.
type Event struct {
	Type EventType

	// Token is the incremental answer text of a stream event.
	Token string

	// Text is the complete answer of a finalAnswer event.
	Text string

	// Sources is the citation batch of a webSearch event. HasSources
	// distinguishes an absent list from an empty one: only events that
	// actually carry a list replace the reader's current batch.
	Sources    []WebSearchSource
	HasSources bool

	// Message is the human-readable note of a status event, if any.
	Message string

	// Raw is the original payload as received.
	Raw []byte
}

// ParseEvent classifies a raw JSON payload into an Event. Payloads without a
// recognized "type" field come back as EventUnrecognized with Raw preserved;
// classification of error signals embedded in such payloads is the reader's
// job, not the parser's.
func ParseEvent(raw []byte) Event {
	ev := Event{Raw: raw}

	switch EventType(gjson.GetBytes(raw, "type").String()) {
	case EventStream:
		ev.Type = EventStream
		ev.Token = gjson.GetBytes(raw, "token").String()

	case EventFinalAnswer:
		ev.Type = EventFinalAnswer
		ev.Text = gjson.GetBytes(raw, "text").String()

	case EventWebSearch:
		ev.Type = EventWebSearch
		if sources := gjson.GetBytes(raw, "sources"); sources.Exists() {
			ev.HasSources = true
			items := sources.Array()
			ev.Sources = make([]WebSearchSource, 0, len(items))
			for _, item := range items {
				ev.Sources = append(ev.Sources, WebSearchSource{
					Title:    item.Get("title").String(),
					Link:     item.Get("link").String(),
					Hostname: item.Get("hostname").String(),
				})
			}
		}

	case EventStatus:
		ev.Type = EventStatus
		ev.Message = gjson.GetBytes(raw, "message").String()
	}

	return ev
}
