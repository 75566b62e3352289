package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/trakieu/artifactbeacon/beacon"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level

	BeaconName   string
	HCIDevice    int
	BlueZAdapter string

	MQTTBroker      string
	MQTTPort        int
	MQTTClientID    string
	MQTTTopicPrefix string

	SightingDedupWindow time.Duration
}

func LoadFromEnv() (Config, error) {
	appEnv := env("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	beaconName := env("BEACON_NAME", beacon.ArtifactName)
	if len(beaconName) > beacon.MaxPayloadLen-3-2 {
		return Config{}, fmt.Errorf("BEACON_NAME %q does not fit in an advertisement", beaconName)
	}

	hciDeviceStr := env("HCI_DEVICE", "0")
	hciDevice, err := strconv.Atoi(hciDeviceStr)
	if err != nil || hciDevice < 0 {
		return Config{}, fmt.Errorf("invalid HCI_DEVICE %q", hciDeviceStr)
	}

	mqttPortStr := env("MQTT_PORT", "1883")
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid MQTT_PORT %q: %w", mqttPortStr, err)
	}

	dedupStr := env("SIGHTING_DEDUP_WINDOW", "10s")
	dedup, err := time.ParseDuration(dedupStr)
	if err != nil {
		return Config{}, fmt.Errorf("invalid SIGHTING_DEDUP_WINDOW %q: %w", dedupStr, err)
	}
	if dedup < 0 {
		return Config{}, fmt.Errorf("SIGHTING_DEDUP_WINDOW must not be negative, got %v", dedup)
	}

	return Config{
		AppEnv:              appEnv,
		LogLevel:            level,
		BeaconName:          beaconName,
		HCIDevice:           hciDevice,
		BlueZAdapter:        env("BLE_ADAPTER", "hci0"),
		MQTTBroker:          env("MQTT_BROKER", "localhost"),
		MQTTPort:            mqttPort,
		MQTTClientID:        env("MQTT_CLIENT_ID", "artifact-beacon-watch"),
		MQTTTopicPrefix:     strings.TrimSuffix(env("MQTT_TOPIC_PREFIX", "artifacts"), "/"),
		SightingDedupWindow: dedup,
	}, nil
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
