// Package wire reads chat events from a raw byte stream, one JSON object per
// line. It tolerates SSE-style "data:" prefixes and blank keep-alive lines.
// The stream is assumed to be already open; dialing, authentication, and
// retry belong to the caller.
package wire

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/gjson"

	hugchat "github.com/hugchat/hugchat-go"
)

// Producer implements hugchat.Producer over an io.Reader.
type Producer struct {
	scanner   *bufio.Scanner
	cancelled bool
}

// NewProducer wraps an open byte stream.
func NewProducer(r io.Reader) *Producer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 1<<20) // 1 MB line buffer
	return &Producer{scanner: sc}
}

// Pull returns the next event line. Returns io.EOF at end of stream; a
// malformed line is a transport failure.
func (p *Producer) Pull(ctx context.Context) (hugchat.Event, error) {
	if p.cancelled {
		return hugchat.Event{}, io.EOF
	}

	for p.scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return hugchat.Event{}, err
		}

		line := strings.TrimSpace(p.scanner.Text())
		line = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if line == "" {
			// Keep-alive, nothing to dispatch.
			continue
		}

		if !gjson.Valid(line) {
			return hugchat.Event{}, fmt.Errorf("wire: malformed event line: %q", line)
		}
		return hugchat.ParseEvent([]byte(line)), nil
	}

	if err := p.scanner.Err(); err != nil {
		return hugchat.Event{}, err
	}
	return hugchat.Event{}, io.EOF
}

// Send is unsupported: a byte stream cannot be resumed with a value.
func (p *Producer) Send(context.Context, any) (hugchat.Event, error) {
	return hugchat.Event{}, hugchat.ErrNotResumable
}

// Cancel stops reading. The underlying reader is the caller's to close.
func (p *Producer) Cancel(ctx context.Context, cause error) (hugchat.Event, error) {
	p.cancelled = true
	return hugchat.Event{}, io.EOF
}
