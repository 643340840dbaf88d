package hugchat

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	overloaded := &OverloadedError{Raw: []byte(`{}`)}
	protocol := &ProtocolError{Reason: "bad request"}
	unrecognized := &UnrecognizedResponseError{Raw: []byte(`{"x":1}`)}

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"overloaded matches", overloaded, IsOverloaded, true},
		{"overloaded wrapped", fmt.Errorf("turn failed: %w", overloaded), IsOverloaded, true},
		{"protocol matches", protocol, IsProtocolError, true},
		{"unrecognized matches", unrecognized, IsUnrecognizedResponse, true},
		{"cross kind", protocol, IsOverloaded, false},
		{"nil error", nil, IsProtocolError, false},
		{"sentinel", ErrStreamEnded, IsUnrecognizedResponse, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("predicate(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	protocol := &ProtocolError{Reason: "rate limited", Raw: []byte(`{"error":"rate limited"}`)}
	if !strings.Contains(protocol.Error(), "rate limited") {
		t.Errorf("ProtocolError.Error() = %q, want it to carry the reason", protocol.Error())
	}

	unrecognized := &UnrecognizedResponseError{Raw: []byte(`{"mystery":true}`)}
	if !strings.Contains(unrecognized.Error(), "mystery") {
		t.Errorf("UnrecognizedResponseError.Error() = %q, want it to carry the payload", unrecognized.Error())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(ErrStreamEnded, ErrRejectedNoError) {
		t.Error("ErrStreamEnded and ErrRejectedNoError must be distinct")
	}
	if errors.Is(ErrNotResumable, ErrStreamEnded) {
		t.Error("ErrNotResumable and ErrStreamEnded must be distinct")
	}
}
