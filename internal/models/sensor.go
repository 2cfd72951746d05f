package models

// SensorType identifies one of the simulated machine sensors
type SensorType string

const (
	SensorVibration   SensorType = "vibration"
	SensorTemperature SensorType = "temperature"
	SensorCurrent     SensorType = "current"
)

// AllSensorTypes returns the fixed set of simulated sensors
func AllSensorTypes() []SensorType {
	return []SensorType{SensorVibration, SensorTemperature, SensorCurrent}
}

// Valid reports whether t is one of the known sensor types
func (t SensorType) Valid() bool {
	switch t {
	case SensorVibration, SensorTemperature, SensorCurrent:
		return true
	}
	return false
}

// SensorConfig holds the static per-sensor simulation parameters.
// Min/Max are the absolute physical bounds, SafeMax the alert ceiling,
// BaseValue the steady-state operating point and NormalVariation the
// amplitude used for the daily cycle and noise.
type SensorConfig struct {
	Min             float64 `json:"min" yaml:"min"`
	Max             float64 `json:"max" yaml:"max"`
	SafeMax         float64 `json:"safe_max" yaml:"safe_max"`
	BaseValue       float64 `json:"base_value" yaml:"base_value"`
	NormalVariation float64 `json:"normal_variation" yaml:"normal_variation"`
	Unit            string  `json:"unit" yaml:"unit"`
}

// Reading is a single generated sensor value
type Reading struct {
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"` // RFC 3339
}

// Threshold holds the runtime-editable safe operating range for a sensor
type Threshold struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// ThresholdPatch carries a partial threshold update; nil fields are left unchanged
type ThresholdPatch struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Alert is raised when a reading falls outside its threshold range
type Alert struct {
	Type      SensorType `json:"type"`
	Value     float64    `json:"value"`
	Unit      string     `json:"unit"`
	Threshold float64    `json:"threshold"`
	Timestamp string     `json:"timestamp"`
	Message   string     `json:"message"`
}

// HistoryEntry is one stored tick worth of readings across all sensors
type HistoryEntry struct {
	Timestamp string                 `json:"timestamp"`
	Readings  map[SensorType]Reading `json:"readings"`
}

// Principal is the identity a client attaches to its realtime connection
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
