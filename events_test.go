package hugchat

import "testing"

func TestParseEvent(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Event
	}{
		{
			name:    "stream token",
			payload: `{"type":"stream","token":"Hel"}`,
			want:    Event{Type: EventStream, Token: "Hel"},
		},
		{
			name:    "final answer",
			payload: `{"type":"finalAnswer","text":"Hello."}`,
			want:    Event{Type: EventFinalAnswer, Text: "Hello."},
		},
		{
			name:    "status heartbeat",
			payload: `{"type":"status","message":"searching"}`,
			want:    Event{Type: EventStatus, Message: "searching"},
		},
		{
			name:    "web search without sources",
			payload: `{"type":"webSearch","messageType":"update"}`,
			want:    Event{Type: EventWebSearch},
		},
		{
			name:    "unknown discriminant",
			payload: `{"type":"telemetry"}`,
			want:    Event{Type: EventUnrecognized},
		},
		{
			name:    "missing discriminant",
			payload: `{"error":"bad request"}`,
			want:    Event{Type: EventUnrecognized},
		},
		{
			name:    "not even an object",
			payload: `!garbage!`,
			want:    Event{Type: EventUnrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseEvent([]byte(tt.payload))
			if got.Type != tt.want.Type {
				t.Errorf("Type = %q, want %q", got.Type, tt.want.Type)
			}
			if got.Token != tt.want.Token {
				t.Errorf("Token = %q, want %q", got.Token, tt.want.Token)
			}
			if got.Text != tt.want.Text {
				t.Errorf("Text = %q, want %q", got.Text, tt.want.Text)
			}
			if got.Message != tt.want.Message {
				t.Errorf("Message = %q, want %q", got.Message, tt.want.Message)
			}
			if string(got.Raw) != tt.payload {
				t.Errorf("Raw = %q, want the original payload", got.Raw)
			}
		})
	}
}

func TestParseEvent_WebSearchSources(t *testing.T) {
	payload := `{"type":"webSearch","sources":[` +
		`{"title":"A","link":"https://a.example","hostname":"a.example"},` +
		`{"title":"B","link":"https://b.example","hostname":"b.example"}]}`

	ev := ParseEvent([]byte(payload))
	if ev.Type != EventWebSearch {
		t.Fatalf("Type = %q, want %q", ev.Type, EventWebSearch)
	}
	if !ev.HasSources {
		t.Fatal("HasSources = false, want true")
	}
	if len(ev.Sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(ev.Sources))
	}
	want := WebSearchSource{Title: "A", Link: "https://a.example", Hostname: "a.example"}
	if ev.Sources[0] != want {
		t.Errorf("Sources[0] = %+v, want %+v", ev.Sources[0], want)
	}
}

func TestParseEvent_EmptySourcesListStillCounts(t *testing.T) {
	// An empty list is still a list: it must clear the reader's batch.
	ev := ParseEvent([]byte(`{"type":"webSearch","sources":[]}`))
	if !ev.HasSources {
		t.Error("HasSources = false for an empty sources list, want true")
	}
	if len(ev.Sources) != 0 {
		t.Errorf("len(Sources) = %d, want 0", len(ev.Sources))
	}
}

func TestEventType_IsValid(t *testing.T) {
	valid := []EventType{EventFinalAnswer, EventStream, EventWebSearch, EventStatus}
	for _, et := range valid {
		if !et.IsValid() {
			t.Errorf("IsValid(%q) = false, want true", et)
		}
	}
	if EventUnrecognized.IsValid() {
		t.Error("IsValid(unrecognized) = true, want false")
	}
	if EventType("telemetry").IsValid() {
		t.Error(`IsValid("telemetry") = true, want false`)
	}
}
