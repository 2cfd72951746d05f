package services

import (
	"sync"

	"nigraan/internal/models"
)

// maxHistoryQuery is the hard ceiling on entries returned by a single query,
// regardless of the limit a client asks for.
const maxHistoryQuery = 100

// HistoryService keeps a bounded record of recent ticks. Entries are served
// newest first; eviction happens in batches so a steady stream of appends
// does not pay a per-insert trim.
type HistoryService struct {
	mu          sync.RWMutex
	entries     []models.HistoryEntry // oldest first, reversed on read
	latest      map[models.SensorType]models.Reading
	capacity    int
	margin      int
	sampleEvery int
	appends     int
}

// NewHistoryService creates a buffer that trims back to capacity once
// capacity+margin is exceeded. sampleEvery=N stores only every Nth append
// (N<=1 stores all); Latest is updated on every append regardless.
func NewHistoryService(capacity, margin, sampleEvery int) *HistoryService {
	if sampleEvery < 1 {
		sampleEvery = 1
	}
	return &HistoryService{
		entries:     make([]models.HistoryEntry, 0, capacity+margin),
		latest:      make(map[models.SensorType]models.Reading),
		capacity:    capacity,
		margin:      margin,
		sampleEvery: sampleEvery,
	}
}

// Append records a tick worth of readings.
func (h *HistoryService) Append(readings map[models.SensorType]models.Reading) {
	if len(readings) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var timestamp string
	stored := make(map[models.SensorType]models.Reading, len(readings))
	for t, r := range readings {
		h.latest[t] = r
		stored[t] = r
		timestamp = r.Timestamp
	}

	h.appends++
	if h.appends%h.sampleEvery != 0 {
		return
	}

	h.entries = append(h.entries, models.HistoryEntry{
		Timestamp: timestamp,
		Readings:  stored,
	})
	if len(h.entries) > h.capacity+h.margin {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Query returns stored entries newest first, capped at min(limit, hard
// ceiling). With a sensor type given, each entry is projected down to that
// type's reading and entries missing it are skipped.
func (h *HistoryService) Query(t models.SensorType, limit int) []models.HistoryEntry {
	if limit <= 0 || limit > maxHistoryQuery {
		limit = maxHistoryQuery
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.HistoryEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := h.entries[i]
		if t != "" {
			r, ok := e.Readings[t]
			if !ok {
				continue
			}
			e = models.HistoryEntry{
				Timestamp: e.Timestamp,
				Readings:  map[models.SensorType]models.Reading{t: r},
			}
		}
		out = append(out, e)
	}
	return out
}

// Latest returns the most recent reading per sensor type.
func (h *HistoryService) Latest() map[models.SensorType]models.Reading {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[models.SensorType]models.Reading, len(h.latest))
	for t, r := range h.latest {
		out[t] = r
	}
	return out
}

// Len reports how many entries are currently stored.
func (h *HistoryService) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
