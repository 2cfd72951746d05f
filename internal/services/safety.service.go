package services

import (
	"fmt"
	"log"
	"sync"

	"nigraan/internal/config"
	"nigraan/internal/models"
)

// alertLogCap bounds the in-process alert log; oldest entries are dropped.
const alertLogCap = 100

// AlertSink durably records an alert. Writes are best-effort and must not
// block the caller; a nil sink disables durable recording.
type AlertSink interface {
	WriteAlert(alert models.Alert)
}

// SafetyService owns the runtime-editable threshold table, evaluates
// readings against it and keeps a bounded newest-first alert log.
type SafetyService struct {
	mu         sync.RWMutex
	thresholds map[models.SensorType]models.Threshold
	alerts     []models.Alert // newest first
	sink       AlertSink
}

// NewSafetyService seeds the threshold table from the sensor configs:
// min = physical floor, max = safe ceiling.
func NewSafetyService(sensors config.SensorsConfig, sink AlertSink) *SafetyService {
	thresholds := make(map[models.SensorType]models.Threshold, len(sensors))
	for t, sc := range sensors {
		thresholds[t] = models.Threshold{
			Min:  sc.Min,
			Max:  sc.SafeMax,
			Unit: sc.Unit,
		}
	}
	return &SafetyService{
		thresholds: thresholds,
		sink:       sink,
	}
}

// Evaluate checks each reading against its threshold and returns the alerts
// raised this tick. Sensor types with no configured threshold are treated as
// safe. Raised alerts are appended to the log and handed to the sink.
func (s *SafetyService) Evaluate(readings map[models.SensorType]models.Reading) []models.Alert {
	var alerts []models.Alert

	s.mu.Lock()
	for t, r := range readings {
		th, ok := s.thresholds[t]
		if !ok {
			continue
		}
		if r.Value >= th.Min && r.Value <= th.Max {
			continue
		}
		alert := models.Alert{
			Type:      t,
			Value:     r.Value,
			Unit:      r.Unit,
			Threshold: th.Max,
			Timestamp: r.Timestamp,
			Message:   fmt.Sprintf("%s exceeded safe level: %.2f %s", t, r.Value, r.Unit),
		}
		alerts = append(alerts, alert)
		s.recordLocked(alert)
		log.Printf("[SAFETY] %s", alert.Message)
	}
	s.mu.Unlock()

	if s.sink != nil {
		for _, a := range alerts {
			s.sink.WriteAlert(a)
		}
	}
	return alerts
}

// recordLocked prepends an alert, dropping the oldest past capacity.
// Caller holds mu.
func (s *SafetyService) recordLocked(alert models.Alert) {
	s.alerts = append([]models.Alert{alert}, s.alerts...)
	if len(s.alerts) > alertLogCap {
		s.alerts = s.alerts[:alertLogCap]
	}
}

// Thresholds returns a copy of the full threshold table.
func (s *SafetyService) Thresholds() map[models.SensorType]models.Threshold {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.SensorType]models.Threshold, len(s.thresholds))
	for t, th := range s.thresholds {
		out[t] = th
	}
	return out
}

// Threshold returns the entry for one sensor type.
func (s *SafetyService) Threshold(t models.SensorType) (models.Threshold, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	th, ok := s.thresholds[t]
	if !ok {
		return models.Threshold{}, ErrUnknownSensor
	}
	return th, nil
}

// UpdateThreshold merge-patches the entry for one sensor type. At least one
// of min/max must be supplied. The updated entry takes effect atomically for
// the next Evaluate call.
func (s *SafetyService) UpdateThreshold(t models.SensorType, patch models.ThresholdPatch) (models.Threshold, error) {
	if patch.Min == nil && patch.Max == nil {
		return models.Threshold{}, fmt.Errorf("%w: at least one of min/max required", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	th, ok := s.thresholds[t]
	if !ok {
		return models.Threshold{}, ErrUnknownSensor
	}
	if patch.Min != nil {
		th.Min = *patch.Min
	}
	if patch.Max != nil {
		th.Max = *patch.Max
	}
	s.thresholds[t] = th
	log.Printf("[SAFETY] threshold updated for %s: min=%.2f max=%.2f", t, th.Min, th.Max)
	return th, nil
}

// Alerts returns logged alerts newest first, optionally filtered by sensor
// type, capped at limit (or the full log when limit <= 0).
func (s *SafetyService) Alerts(t models.SensorType, limit int) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.alerts) {
		limit = len(s.alerts)
	}

	out := make([]models.Alert, 0, limit)
	for _, a := range s.alerts {
		if t != "" && a.Type != t {
			continue
		}
		out = append(out, a)
		if len(out) == limit {
			break
		}
	}
	return out
}
