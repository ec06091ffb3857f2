// Package notify posts webhook notifications for solved challenges.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sjtug/cerberus-solver/internal/config"
	"github.com/sjtug/cerberus-solver/internal/storage"
	"github.com/sjtug/cerberus-solver/internal/util"
)

// Retry configuration
const (
	MaxRetries     = 3
	RetryBaseDelay = 2 * time.Second
)

// Notifier handles sending notifications
type Notifier struct {
	cfg    *config.NotifyConfig
	client *http.Client
}

// NewNotifier creates a new notifier
func NewNotifier(cfg *config.NotifyConfig) *Notifier {
	return &Notifier{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// solutionPayload is the webhook body for a found solution
type solutionPayload struct {
	Source     string `json:"source"`
	Event      string `json:"event"`
	Difficulty uint8  `json:"difficulty"`
	Nonce      uint64 `json:"nonce"`
	Hash       string `json:"hash"`
	Attempts   uint64 `json:"attempts"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	Timestamp  string `json:"timestamp"`
}

// NotifySolutionFound sends a notification for a solved challenge
func (n *Notifier) NotifySolutionFound(sol *storage.Solution) {
	if !n.cfg.Enabled || n.cfg.WebhookURL == "" {
		return
	}

	payload := solutionPayload{
		Source:     n.cfg.Name,
		Event:      "solution_found",
		Difficulty: sol.Difficulty,
		Nonce:      sol.Nonce,
		Hash:       sol.Hash,
		Attempts:   sol.Attempts,
		ElapsedMs:  sol.ElapsedMs,
		Timestamp:  time.Unix(sol.Timestamp, 0).UTC().Format(time.RFC3339),
	}

	go n.send(payload)
}

// send posts the payload with exponential backoff
func (n *Notifier) send(payload solutionPayload) {
	body, err := json.Marshal(payload)
	if err != nil {
		util.Errorf("Failed to marshal webhook payload: %v", err)
		return
	}

	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(RetryBaseDelay * time.Duration(1<<uint(attempt-1)))
		}

		resp, err := n.client.Post(n.cfg.WebhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return
		}
		lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	util.Errorf("Webhook notification failed after %d attempts: %v", MaxRetries, lastErr)
}
