package watch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/trakieu/artifactbeacon/internal/mqtt"
)

// Publisher sends sightings to the storytelling application.
type Publisher interface {
	PublishSighting(mqtt.Sighting) error
	PublishPresence(mqtt.Presence) error
}

// Handler verifies artifact observations, logs violations and publishes at
// most one sighting per address and dedup window.
type Handler struct {
	verifier  *Verifier
	publisher Publisher
	window    time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	published map[string]time.Time

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts what the handler has processed.
type Stats struct {
	Observations int
	Violations   int
	Published    int
}

// NewHandler returns a handler. publisher may be nil to only verify.
func NewHandler(verifier *Verifier, publisher Publisher, window time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		verifier:  verifier,
		publisher: publisher,
		window:    window,
		logger:    logger,
		published: make(map[string]time.Time),
	}
}

// HandleObservation is passed to Scanner.Run.
func (h *Handler) HandleObservation(obs Observation) {
	if !h.verifier.Matches(obs) {
		return
	}
	res := h.verifier.Verify(obs)

	h.statsMu.Lock()
	h.stats.Observations++
	if !res.OK() {
		h.stats.Violations++
	}
	h.statsMu.Unlock()

	for _, v := range res.Violations {
		h.logger.Warn("watch: beacon misconfigured", "addr", obs.Address, "violation", v)
	}
	if !h.due(obs) {
		return
	}

	h.logger.Info("watch: artifact sighted",
		"name", obs.LocalName,
		"addr", obs.Address,
		"rssi", obs.RSSI,
		"interval", res.Interval,
		"ok", res.OK(),
	)
	if h.publisher == nil {
		return
	}

	sighting := mqtt.Sighting{
		Artifact:    obs.LocalName,
		Address:     obs.Address,
		RSSI:        obs.RSSI,
		Connectable: obs.Connectable,
		Violations:  res.Violations,
		SeenAt:      obs.SeenAt,
	}
	if res.Interval != 0 {
		ms := float64(res.Interval) / float64(time.Millisecond)
		sighting.IntervalMS = &ms
	}
	if err := h.publisher.PublishSighting(sighting); err != nil {
		h.logger.Warn("watch: failed to publish sighting", "addr", obs.Address, "error", err)
		h.forget(obs)
		return
	}
	if err := h.publisher.PublishPresence(mqtt.Presence{
		Artifact: obs.LocalName,
		Address:  obs.Address,
		LastSeen: obs.SeenAt,
		Nearby:   true,
	}); err != nil {
		h.logger.Warn("watch: failed to publish presence", "addr", obs.Address, "error", err)
	}

	h.statsMu.Lock()
	h.stats.Published++
	h.statsMu.Unlock()
}

// due reports whether a sighting of obs.Address should be published now.
func (h *Handler) due(obs Observation) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	last, ok := h.published[obs.Address]
	if ok && obs.SeenAt.Sub(last) < h.window {
		return false
	}
	h.published[obs.Address] = obs.SeenAt
	return true
}

// forget undoes due for obs, so the next observation is published again.
func (h *Handler) forget(obs Observation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if last, ok := h.published[obs.Address]; ok && last.Equal(obs.SeenAt) {
		delete(h.published, obs.Address)
	}
}

func (h *Handler) Stats() Stats {
	h.statsMu.Lock()
	defer h.statsMu.Unlock()
	return h.stats
}
