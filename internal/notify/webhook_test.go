package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sjtug/cerberus-solver/internal/config"
	"github.com/sjtug/cerberus-solver/internal/storage"
)

func TestNotifySolutionFound(t *testing.T) {
	received := make(chan solutionPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload solutionPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := NewNotifier(&config.NotifyConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Name:       "test-solver",
	})

	n.NotifySolutionFound(&storage.Solution{
		Nonce:      42,
		Hash:       "cafe",
		Difficulty: 6,
		Attempts:   1000,
		Timestamp:  1700000000,
	})

	select {
	case payload := <-received:
		if payload.Nonce != 42 || payload.Difficulty != 6 {
			t.Errorf("payload = %+v", payload)
		}
		if payload.Event != "solution_found" {
			t.Errorf("event = %q, want solution_found", payload.Event)
		}
		if payload.Source != "test-solver" {
			t.Errorf("source = %q, want test-solver", payload.Source)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("webhook never delivered")
	}
}

func TestNotifyDisabled(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	n := NewNotifier(&config.NotifyConfig{
		Enabled:    false,
		WebhookURL: server.URL,
	})
	n.NotifySolutionFound(&storage.Solution{Nonce: 1})

	time.Sleep(100 * time.Millisecond)
	if called {
		t.Error("disabled notifier must not post")
	}
}
