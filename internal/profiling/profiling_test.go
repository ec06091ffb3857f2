package profiling

import (
	"testing"

	"github.com/sjtug/cerberus-solver/internal/config"
)

func TestNewServer(t *testing.T) {
	cfg := &config.ProfilingConfig{
		Enabled: true,
		Bind:    "127.0.0.1:6060",
	}

	server := NewServer(cfg)
	if server == nil {
		t.Fatal("NewServer returned nil")
	}
	if server.server != nil {
		t.Error("Server.server should be nil before Start()")
	}
}

func TestServerStartDisabled(t *testing.T) {
	server := NewServer(&config.ProfilingConfig{Enabled: false})

	if err := server.Start(); err != nil {
		t.Errorf("Start() returned error when disabled: %v", err)
	}
	if server.server != nil {
		t.Error("Server.server should be nil when disabled")
	}
}

func TestServerStartStop(t *testing.T) {
	server := NewServer(&config.ProfilingConfig{
		Enabled: true,
		Bind:    "127.0.0.1:0",
	})

	if err := server.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := server.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
