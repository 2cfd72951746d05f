package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"nigraan/internal/config"
	"nigraan/internal/models"
)

type captureSink struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (c *captureSink) WriteAlert(a models.Alert) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alerts = append(c.alerts, a)
}

func safetySensors() config.SensorsConfig {
	return config.SensorsConfig{
		models.SensorTemperature: {
			Min: 20, Max: 120, SafeMax: 80,
			BaseValue: 55, NormalVariation: 10,
			Unit: "°C",
		},
	}
}

func reading(value float64, unit string) models.Reading {
	return models.Reading{
		Value:     value,
		Unit:      unit,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func TestEvaluateRaisesOneAlertAboveMax(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	alerts := s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(95, "°C"),
	})

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Type != models.SensorTemperature {
		t.Errorf("type: got %s", a.Type)
	}
	if a.Threshold != 80 {
		t.Errorf("threshold: got %v, want 80", a.Threshold)
	}
	if a.Value != 95 {
		t.Errorf("value: got %v, want 95", a.Value)
	}
	if !strings.Contains(a.Message, "exceeded safe level") {
		t.Errorf("unexpected message: %q", a.Message)
	}
}

func TestEvaluateBelowMinIsUnsafe(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	alerts := s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(10, "°C"), // below min 20
	})
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
}

func TestEvaluateSafeReadingNoAlert(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	alerts := s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(55, "°C"),
	})
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %d", len(alerts))
	}
	if got := s.Alerts("", 0); len(got) != 0 {
		t.Fatalf("alert log should be empty, has %d", len(got))
	}
}

// A sensor type with no configured threshold is treated as safe.
func TestEvaluateUnconfiguredTypeIsSafe(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	alerts := s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorType("humidity"): reading(9999, "%"),
	})
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts for unconfigured type, got %d", len(alerts))
	}
}

func TestEvaluateWritesToSink(t *testing.T) {
	sink := &captureSink{}
	s := NewSafetyService(safetySensors(), sink)

	s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(95, "°C"),
	})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.alerts) != 1 {
		t.Fatalf("sink: expected 1 alert, got %d", len(sink.alerts))
	}
}

func TestUpdateThresholdRoundTrip(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	max := 90.0
	updated, err := s.UpdateThreshold(models.SensorTemperature, models.ThresholdPatch{Max: &max})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Max != 90 {
		t.Errorf("max: got %v, want 90", updated.Max)
	}
	if updated.Min != 20 {
		t.Errorf("min changed by max-only patch: got %v, want 20", updated.Min)
	}

	got, err := s.Threshold(models.SensorTemperature)
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if got.Max != 90 {
		t.Errorf("read-back max: got %v, want 90", got.Max)
	}
}

func TestUpdateThresholdErrors(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)
	min := 10.0

	tests := []struct {
		name    string
		typ     models.SensorType
		patch   models.ThresholdPatch
		wantErr error
	}{
		{"unknown type", models.SensorType("plasma"), models.ThresholdPatch{Min: &min}, ErrUnknownSensor},
		{"no fields", models.SensorTemperature, models.ThresholdPatch{}, ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.UpdateThreshold(tt.typ, tt.patch)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUpdatedThresholdAffectsNextEvaluate(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	r := map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(85, "°C"),
	}
	if alerts := s.Evaluate(r); len(alerts) != 1 {
		t.Fatalf("expected alert at max 80, got %d", len(alerts))
	}

	max := 90.0
	if _, err := s.UpdateThreshold(models.SensorTemperature, models.ThresholdPatch{Max: &max}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if alerts := s.Evaluate(r); len(alerts) != 0 {
		t.Fatalf("expected no alert after raising max to 90, got %d", len(alerts))
	}
}

func TestAlertLogCapDropsOldest(t *testing.T) {
	s := NewSafetyService(safetySensors(), nil)

	for i := 0; i < alertLogCap+5; i++ {
		s.Evaluate(map[models.SensorType]models.Reading{
			models.SensorTemperature: {
				Value:     100,
				Unit:      "°C",
				Timestamp: fmt.Sprintf("ts-%d", i),
			},
		})
	}

	alerts := s.Alerts("", 0)
	if len(alerts) != alertLogCap {
		t.Fatalf("log length: got %d, want %d", len(alerts), alertLogCap)
	}
	if alerts[0].Timestamp != fmt.Sprintf("ts-%d", alertLogCap+4) {
		t.Errorf("newest first violated: first entry is %s", alerts[0].Timestamp)
	}
	if alerts[len(alerts)-1].Timestamp != "ts-5" {
		t.Errorf("oldest surviving entry: got %s, want ts-5", alerts[len(alerts)-1].Timestamp)
	}
}

func TestAlertsFilterAndLimit(t *testing.T) {
	sensors := safetySensors()
	sensors[models.SensorVibration] = models.SensorConfig{
		Min: 0, Max: 10, SafeMax: 7, BaseValue: 3.5, NormalVariation: 1.5, Unit: "mm/s",
	}
	s := NewSafetyService(sensors, nil)

	s.Evaluate(map[models.SensorType]models.Reading{
		models.SensorTemperature: reading(95, "°C"),
		models.SensorVibration:   reading(9, "mm/s"),
	})

	if got := s.Alerts(models.SensorVibration, 0); len(got) != 1 || got[0].Type != models.SensorVibration {
		t.Fatalf("vibration filter: got %+v", got)
	}
	if got := s.Alerts("", 1); len(got) != 1 {
		t.Fatalf("limit 1: got %d entries", len(got))
	}
}
