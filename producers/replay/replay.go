// Package replay provides a scripted event producer for tests and
// development. A Script declares the events one chat turn should emit, in
// order, including injected transport failures and pacing pauses. Scripts can
// be built in code or loaded from YAML; a small embedded script ships as a
// ready-made default.
package replay

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"

	hugchat "github.com/hugchat/hugchat-go"
)

//go:embed scripts/basic.yaml
var basicScriptYAML []byte

// Script is an ordered sequence of producer steps.
type Script struct {
	// Name labels the script in test output.
	Name string `yaml:"name"`

	Steps []Step `yaml:"steps"`
}

// Step describes one Pull outcome. Exactly one of the payload forms applies:
// Raw wins over the structured fields, and Fail replaces the event with an
// injected transport failure.
type Step struct {
	// Type is the event discriminant (finalAnswer, stream, webSearch, status).
	Type string `yaml:"type,omitempty"`

	// Token is the incremental text of a stream step.
	Token string `yaml:"token,omitempty"`

	// Text is the answer of a finalAnswer step.
	Text string `yaml:"text,omitempty"`

	// Message is the note of a status step.
	Message string `yaml:"message,omitempty"`

	// Sources is the citation batch of a webSearch step.
	Sources []hugchat.WebSearchSource `yaml:"sources,omitempty"`

	// Error emits an error-shaped payload ({"error": ...}) with no type field.
	Error string `yaml:"error,omitempty"`

	// Raw is a verbatim payload, overriding the structured fields.
	Raw string `yaml:"raw,omitempty"`

	// Fail injects a transport failure with this message instead of an event.
	Fail string `yaml:"fail,omitempty"`

	// DelayMS pauses before the step, simulating network latency.
	DelayMS int `yaml:"delay_ms,omitempty"`
}

// payload synthesizes the step's raw JSON event.
func (s Step) payload() ([]byte, error) {
	if s.Raw != "" {
		return []byte(s.Raw), nil
	}

	raw := []byte(`{}`)
	var err error
	set := func(path string, value any) {
		if err != nil {
			return
		}
		raw, err = sjson.SetBytes(raw, path, value)
	}

	if s.Type != "" {
		set("type", s.Type)
	}
	if s.Token != "" {
		set("token", s.Token)
	}
	if s.Text != "" {
		set("text", s.Text)
	}
	if s.Message != "" {
		set("message", s.Message)
	}
	if s.Sources != nil {
		set("sources", s.Sources)
	}
	if s.Error != "" {
		set("error", s.Error)
	}
	if err != nil {
		return nil, fmt.Errorf("replay: synthesizing step payload: %w", err)
	}
	return raw, nil
}

// ParseScript decodes a YAML script.
func ParseScript(data []byte) (Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("replay: parsing script: %w", err)
	}
	return script, nil
}

// LoadScript reads and decodes a YAML script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: reading script file: %w", err)
	}
	return ParseScript(data)
}

// BasicScript returns the embedded sample script: a search phase with one
// citation batch, a few streamed tokens, and a final answer.
func BasicScript() Script {
	script, err := ParseScript(basicScriptYAML)
	if err != nil {
		// The embedded script is validated by tests; failing here means the
		// build itself is broken.
		panic(err)
	}
	return script
}

// Producer replays a Script as a hugchat.Producer. It records values
// injected via Send and the cause passed to Cancel so tests can assert the
// bidirectional forwarding path.
type Producer struct {
	steps       []Step
	pos         int
	sent        []any
	cancelCause error
	cancelled   bool
}

// New creates a producer replaying the given script.
func New(script Script) *Producer {
	return &Producer{steps: script.Steps}
}

// Pull replays the next step. Returns io.EOF once the script is exhausted or
// the producer was cancelled.
func (p *Producer) Pull(ctx context.Context) (hugchat.Event, error) {
	if p.cancelled || p.pos >= len(p.steps) {
		return hugchat.Event{}, io.EOF
	}
	step := p.steps[p.pos]
	p.pos++

	if step.DelayMS > 0 {
		select {
		case <-time.After(time.Duration(step.DelayMS) * time.Millisecond):
		case <-ctx.Done():
			return hugchat.Event{}, ctx.Err()
		}
	}

	if step.Fail != "" {
		return hugchat.Event{}, errors.New(step.Fail)
	}

	raw, err := step.payload()
	if err != nil {
		return hugchat.Event{}, err
	}
	return hugchat.ParseEvent(raw), nil
}

// Send records the injected value and replays the next step.
func (p *Producer) Send(ctx context.Context, v any) (hugchat.Event, error) {
	p.sent = append(p.sent, v)
	return p.Pull(ctx)
}

// Cancel records the cause and ends the replay.
func (p *Producer) Cancel(ctx context.Context, cause error) (hugchat.Event, error) {
	p.cancelled = true
	p.cancelCause = cause
	return hugchat.Event{}, io.EOF
}

// Sent returns the values injected via Send, in order.
func (p *Producer) Sent() []any {
	return p.sent
}

// CancelCause returns the signal passed to Cancel, or nil.
func (p *Producer) CancelCause() error {
	return p.cancelCause
}
