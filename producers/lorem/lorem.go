// Package lorem provides a mock chat event producer that generates lorem
// ipsum turns. Used for testing and development without a live service.
package lorem

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/tidwall/sjson"

	hugchat "github.com/hugchat/hugchat-go"
)

// Options shape the generated turn.
type Options struct {
	// Model tunes the pacing by name: lorem-slow (2 tokens/s), lorem-medium
	// (10 tokens/s), lorem-fast (30 tokens/s), lorem-test (no delay).
	Model string

	// Words is the number of streamed tokens before the final answer
	// (default 30).
	Words int

	// WebSearch emits a citation batch before the tokens.
	WebSearch bool

	// Overloaded ends the turn with an overload payload instead of a final
	// answer.
	Overloaded bool

	// ErrorMessage, if set, ends the turn with an error-shaped payload.
	ErrorMessage string
}

// getStreamDelay returns the delay between tokens based on the model name.
func getStreamDelay(model string) time.Duration {
	if strings.Contains(model, "test") {
		return 0
	}
	if strings.Contains(model, "slow") {
		return 500 * time.Millisecond // 2 tokens/second
	}
	if strings.Contains(model, "fast") {
		return 33 * time.Millisecond // 30 tokens/second
	}
	return 100 * time.Millisecond // default: 10 tokens/second
}

// Producer implements hugchat.Producer with a pre-planned lorem ipsum turn.
type Producer struct {
	payloads  [][]byte
	pos       int
	delay     time.Duration
	cancelled bool
}

// NewProducer plans one mock turn.
func NewProducer(opts Options) *Producer {
	generator := loremgen.New()

	words := opts.Words
	if words <= 0 {
		words = 30
	}

	var tokens []string
	for len(tokens) < words {
		sentence := generator.Sentence(5, 15)
		for _, w := range strings.Fields(sentence) {
			if len(tokens) == words {
				break
			}
			tokens = append(tokens, w+" ")
		}
	}

	var payloads [][]byte
	add := func(raw []byte, err error) {
		if err != nil {
			// sjson only fails on malformed paths, which are all literals here.
			panic(err)
		}
		payloads = append(payloads, raw)
	}

	add(sjson.SetBytes([]byte(`{"type":"status"}`), "message", "queued"))

	if opts.WebSearch {
		raw := []byte(`{"type":"webSearch"}`)
		raw, err := sjson.SetBytes(raw, "sources", []hugchat.WebSearchSource{
			{
				Title:    generator.Sentence(3, 5),
				Link:     "https://lorem.example/" + generator.Word(3, 8),
				Hostname: "lorem.example",
			},
		})
		add(raw, err)
	}

	for _, token := range tokens {
		raw := []byte(`{"type":"stream"}`)
		raw, err := sjson.SetBytes(raw, "token", token)
		add(raw, err)
	}

	switch {
	case opts.Overloaded:
		add(sjson.SetBytes([]byte(`{}`), "error", "Model is overloaded"))
	case opts.ErrorMessage != "":
		add(sjson.SetBytes([]byte(`{}`), "error", opts.ErrorMessage))
	default:
		answer := strings.TrimSpace(strings.Join(tokens, ""))
		raw := []byte(`{"type":"finalAnswer"}`)
		raw, err := sjson.SetBytes(raw, "text", answer)
		add(raw, err)
	}

	log.Printf("[LOREM] turn planned: model=%s, events=%d, web_search=%v, overloaded=%v",
		opts.Model, len(payloads), opts.WebSearch, opts.Overloaded)

	return &Producer{
		payloads: payloads,
		delay:    getStreamDelay(opts.Model),
	}
}

// Pull emits the next planned event, pacing tokens by the model's delay.
func (p *Producer) Pull(ctx context.Context) (hugchat.Event, error) {
	if p.cancelled || p.pos >= len(p.payloads) {
		return hugchat.Event{}, io.EOF
	}

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return hugchat.Event{}, ctx.Err()
		}
	}

	raw := p.payloads[p.pos]
	p.pos++
	return hugchat.ParseEvent(raw), nil
}

// Send is unsupported: the mock turn is fully planned at construction.
func (p *Producer) Send(context.Context, any) (hugchat.Event, error) {
	return hugchat.Event{}, hugchat.ErrNotResumable
}

// Cancel stops the turn.
func (p *Producer) Cancel(ctx context.Context, cause error) (hugchat.Event, error) {
	p.cancelled = true
	log.Printf("[LOREM] turn cancelled: %v", cause)
	return hugchat.Event{}, io.EOF
}

// Remaining reports how many planned events have not been pulled yet.
func (p *Producer) Remaining() int {
	return len(p.payloads) - p.pos
}
