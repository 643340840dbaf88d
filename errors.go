package hugchat

import (
	"errors"
	"fmt"
)

// overloadedMarker is the textual fingerprint the service embeds in otherwise
// unstructured payloads when the model is at capacity.
const overloadedMarker = "Model is overloaded"

// Sentinel errors for common failure modes.
// These can be checked with errors.Is().
var (
	// ErrStreamEnded indicates the producer was exhausted before a final
	// answer arrived. The message is rejected with this error so that
	// WaitUntilDone never spins on a drained stream.
	ErrStreamEnded = errors.New("hugchat: event stream ended before a final answer")

	// ErrRejectedNoError indicates a message reached the rejected state with
	// no captured error. The classifier always captures an error before
	// rejecting, so observing this means a producer or embedder violated the
	// contract.
	ErrRejectedNoError = errors.New("hugchat: message rejected with no captured error")

	// ErrNotResumable indicates the producer is a pure pull source and does
	// not support injected values or cancellation signals.
	ErrNotResumable = errors.New("hugchat: producer does not support resumption")
)

// OverloadedError indicates the remote model is temporarily at capacity.
// It is detected via a textual marker in an otherwise unclassified payload.
type OverloadedError struct {
	Raw []byte // the payload that carried the marker
}

func (e *OverloadedError) Error() string {
	return "hugchat: model is overloaded, please try again later or switch to another model"
}

// ProtocolError indicates the service explicitly reported an error in an
// event payload.
type ProtocolError struct {
	Reason string // value of the payload's "error" field
	Raw    []byte // the full payload
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hugchat: service reported an error: %s", e.Reason)
}

// UnrecognizedResponseError indicates an event matched no known discriminant
// and carried no error field.
type UnrecognizedResponseError struct {
	Raw []byte // the payload as received
}

func (e *UnrecognizedResponseError) Error() string {
	return fmt.Sprintf("hugchat: unrecognized response payload: %s", e.Raw)
}

// IsOverloaded checks if an error reports model overload. Overload is
// transient, so callers typically retry the whole turn or switch models.
func IsOverloaded(err error) bool {
	var overloaded *OverloadedError
	return errors.As(err, &overloaded)
}

// IsProtocolError checks if an error was explicitly reported by the service.
func IsProtocolError(err error) bool {
	var protocol *ProtocolError
	return errors.As(err, &protocol)
}

// IsUnrecognizedResponse checks if an error came from a payload the reader
// could not classify.
func IsUnrecognizedResponse(err error) bool {
	var unrecognized *UnrecognizedResponseError
	return errors.As(err, &unrecognized)
}
