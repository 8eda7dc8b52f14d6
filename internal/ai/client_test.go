package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chatBody(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	raw, _ := json.Marshal(resp)
	return string(raw)
}

func TestComplete(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, chatBody("Develop your knight."))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	got, err := client.Complete(context.Background(), ChatRequest{Model: "m", Messages: []Message{TextMessage("user", "hi")}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "Develop your knight." {
		t.Fatalf("content = %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth header = %q", gotAuth)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	if _, err := client.Complete(context.Background(), ChatRequest{}); err != ErrNoChoices {
		t.Fatalf("err = %v, want ErrNoChoices", err)
	}
}

func TestComplete_APIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"error":{"message":"model overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	_, err := client.Complete(context.Background(), ChatRequest{})
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("err = %v, want the api error message", err)
	}
}

func TestCompleteInto_SetsJSONFormatAndStripsFence(t *testing.T) {
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotReq)
		_, _ = io.WriteString(w, chatBody("```json\n{\"move\":\"Nf3\"}\n```"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k")
	var dst struct {
		Move string `json:"move"`
	}
	if err := client.CompleteInto(context.Background(), ChatRequest{Model: "m"}, &dst); err != nil {
		t.Fatalf("CompleteInto: %v", err)
	}
	if dst.Move != "Nf3" {
		t.Fatalf("decoded move = %q", dst.Move)
	}
	if gotReq.ResponseFormat == nil || gotReq.ResponseFormat.Type != "json_object" {
		t.Fatalf("response_format = %+v, want json_object", gotReq.ResponseFormat)
	}
}

func TestDoJSON_RetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, chatBody("ok"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", WithRetry(3), WithTimeout(2*time.Second))
	got, err := client.Complete(context.Background(), ChatRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "ok" || calls.Load() != 3 {
		t.Fatalf("content=%q calls=%d", got, calls.Load())
	}
}

func TestDoJSON_NoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "k", WithRetry(3))
	if _, err := client.Complete(context.Background(), ChatRequest{}); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1 for a non-retryable status", calls.Load())
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDataURL(t *testing.T) {
	got := DataURL("image/jpeg", []byte{0x01, 0x02})
	if !strings.HasPrefix(got, "data:image/jpeg;base64,") {
		t.Fatalf("DataURL = %q", got)
	}
	if got := DataURL("", []byte{0x01}); !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("empty mime should default to png: %q", got)
	}
}

func TestBackoffDurationGrows(t *testing.T) {
	if backoffDuration(1) != 100*time.Millisecond {
		t.Fatalf("attempt 1 = %v", backoffDuration(1))
	}
	if backoffDuration(3) != 400*time.Millisecond {
		t.Fatalf("attempt 3 = %v", backoffDuration(3))
	}
	if backoffDuration(10) != backoffDuration(6) {
		t.Fatalf("backoff must cap at attempt 6")
	}
}
