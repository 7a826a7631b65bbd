package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/nathoo/alleycats/config"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.log")
	log, err := New(config.LogConfig{Level: "warn", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("hidden")
	log.Warn("owner has no cell on the map")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "owner has no cell on the map") {
		t.Errorf("warn line missing: %s", out)
	}
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"", false},
		{"debug", false},
		{"error", false},
		{"chatty", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			_, err := New(config.LogConfig{Level: tt.level, File: filepath.Join(t.TempDir(), "x.log")})
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%q) error = %v, wantErr %v", tt.level, err, tt.wantErr)
			}
		})
	}
}

func TestNew_Development(t *testing.T) {
	log, err := New(config.LogConfig{Development: true, File: filepath.Join(t.TempDir(), "dev.log")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !log.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should default to debug")
	}
}
