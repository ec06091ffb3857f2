package newrelic

import (
	"testing"
	"time"

	"github.com/sjtug/cerberus-solver/internal/config"
)

func TestNewAgent(t *testing.T) {
	cfg := &config.NewRelicConfig{
		Enabled:    true,
		AppName:    "Test Solver",
		LicenseKey: "test_key",
	}

	agent := NewAgent(cfg)
	if agent == nil {
		t.Fatal("NewAgent returned nil")
	}
	if agent.app != nil {
		t.Error("Agent.app should be nil before Start()")
	}
}

func TestStartDisabled(t *testing.T) {
	agent := NewAgent(&config.NewRelicConfig{Enabled: false})

	if err := agent.Start(); err != nil {
		t.Errorf("Start() returned error when disabled: %v", err)
	}
	if agent.app != nil {
		t.Error("Agent.app should be nil when disabled")
	}
}

func TestStartNoLicenseKey(t *testing.T) {
	agent := NewAgent(&config.NewRelicConfig{
		Enabled: true,
		AppName: "Test Solver",
	})

	if err := agent.Start(); err != nil {
		t.Errorf("Start() returned error with empty license key: %v", err)
	}
	if agent.app != nil {
		t.Error("Agent.app should be nil without a license key")
	}
}

func TestRecordSolveWithoutApp(t *testing.T) {
	agent := NewAgent(&config.NewRelicConfig{Enabled: false})

	// Must be a no-op, not a panic, when APM never started.
	agent.RecordSolve(6, 64000, 200*time.Millisecond)
}

func TestStopWithoutStart(t *testing.T) {
	agent := NewAgent(&config.NewRelicConfig{Enabled: false})
	agent.Stop()
}
