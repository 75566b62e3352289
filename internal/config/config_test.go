package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "BEACON_NAME", "HCI_DEVICE", "BLE_ADAPTER", "MQTT_BROKER", "MQTT_PORT", "MQTT_CLIENT_ID", "MQTT_TOPIC_PREFIX", "SIGHTING_DEDUP_WINDOW"} {
		t.Setenv(k, "")
	}
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	want := Config{
		AppEnv:              "dev",
		LogLevel:            slog.LevelInfo,
		BeaconName:          "TraKieu_Apsara_Relief",
		HCIDevice:           0,
		BlueZAdapter:        "hci0",
		MQTTBroker:          "localhost",
		MQTTPort:            1883,
		MQTTClientID:        "artifact-beacon-watch",
		MQTTTopicPrefix:     "artifacts",
		SightingDedupWindow: 10 * time.Second,
	}
	if cfg != want {
		t.Errorf("unexpected config:\nexpected: %+v\nactual:   %+v", want, cfg)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("LOG_LEVEL", " WARNING ")
	t.Setenv("BEACON_NAME", "My_Stele")
	t.Setenv("HCI_DEVICE", "1")
	t.Setenv("MQTT_TOPIC_PREFIX", "museum/")
	t.Setenv("SIGHTING_DEDUP_WINDOW", "0s")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.AppEnv != "prod" || cfg.LogLevel != slog.LevelWarn || cfg.BeaconName != "My_Stele" || cfg.HCIDevice != 1 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.MQTTTopicPrefix != "museum" {
		t.Errorf("topic prefix %q", cfg.MQTTTopicPrefix)
	}
	if cfg.SightingDedupWindow != 0 {
		t.Errorf("dedup window %s", cfg.SightingDedupWindow)
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"APP_ENV", "staging"},
		{"LOG_LEVEL", "verbose"},
		{"BEACON_NAME", "a_name_that_is_far_too_long_for_a_beacon"},
		{"HCI_DEVICE", "-1"},
		{"MQTT_PORT", "mqtt"},
		{"SIGHTING_DEDUP_WINDOW", "soon"},
		{"SIGHTING_DEDUP_WINDOW", "-5s"},
	}
	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("expected an error for %s=%q", tc.key, tc.value)
			}
		})
	}
}
