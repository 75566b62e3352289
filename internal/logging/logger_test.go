package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/trakieu/artifactbeacon/internal/config"
)

func TestNewProdLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "beaconctl")
	logger.Debug("hidden")
	logger.Info("advertising", "name", "TraKieu_Apsara_Relief")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not a single JSON line: %v\n%s", err, buf.String())
	}
	for k, v := range map[string]string{"app": "beaconctl", "version": "1.2.3", "env": "prod", "msg": "advertising", "name": "TraKieu_Apsara_Relief"} {
		if line[k] != v {
			t.Errorf("%s = %v, expected %q", k, line[k], v)
		}
	}
}

func TestNewDevLogsText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, config.Config{AppEnv: "dev", LogLevel: slog.LevelInfo}, "dev", "beaconctl")
	logger.Info("scanning")
	out := buf.String()
	if !strings.Contains(out, "scanning") || !strings.Contains(out, "beaconctl") {
		t.Errorf("unexpected output %q", out)
	}
	if strings.HasPrefix(out, "{") {
		t.Errorf("dev output should not be JSON: %q", out)
	}
}

func TestNewDevNoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, config.Config{AppEnv: "dev", LogLevel: slog.LevelInfo}, "dev", "beaconctl").Warn("interval below 90ms")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape codes written to a non-terminal: %q", buf.String())
	}
}
