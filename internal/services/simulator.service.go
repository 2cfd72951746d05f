package services

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"nigraan/internal/config"
	"nigraan/internal/models"
)

const (
	// Scheduled anomaly bursts: how far out the next one is drawn, and how
	// long a burst lasts once it starts.
	anomalyGapMin      = 2 * time.Hour
	anomalyGapMax      = 3 * time.Hour
	anomalyDurationMin = 2 * time.Minute
	anomalyDurationMax = 5 * time.Minute

	// Share of NormalVariation contributed by the daily cycle and by noise.
	cycleWeight = 0.5
	noiseWeight = 0.3

	// How far above SafeMax an anomaly peaks, relative to the headroom
	// between BaseValue and SafeMax.
	anomalyExcessFactor = 1.2
)

// anomalyState tracks the scheduled/active burst for one sensor.
// Exactly one of {scheduled, active} holds: while inactive, nextAt is the
// scheduled start; while active, endTime bounds the burst.
type anomalyState struct {
	active   bool
	nextAt   time.Time
	duration time.Duration
	endTime  time.Time
}

// Simulator generates synthetic readings for every configured sensor.
// Each value is a daily sine cycle around the sensor's base value, plus
// bounded noise, plus a smooth burst that temporarily pushes the value
// past its safe ceiling while an anomaly is active.
type Simulator struct {
	mu        sync.Mutex
	sensors   config.SensorsConfig
	anomalies map[models.SensorType]*anomalyState
	rng       *rand.Rand
	now       func() time.Time
}

// NewSimulator seeds one anomaly schedule per configured sensor.
func NewSimulator(sensors config.SensorsConfig) *Simulator {
	return newSimulator(sensors, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

func newSimulator(sensors config.SensorsConfig, rng *rand.Rand, now func() time.Time) *Simulator {
	s := &Simulator{
		sensors:   sensors,
		anomalies: make(map[models.SensorType]*anomalyState, len(sensors)),
		rng:       rng,
		now:       now,
	}
	for t := range sensors {
		st := &anomalyState{}
		s.schedule(st)
		s.anomalies[t] = st
	}
	return s
}

// schedule draws the next anomaly start and its duration. Caller holds mu.
func (s *Simulator) schedule(st *anomalyState) {
	gap := anomalyGapMin + time.Duration(s.rng.Float64()*float64(anomalyGapMax-anomalyGapMin))
	st.active = false
	st.nextAt = s.now().Add(gap)
	st.duration = anomalyDurationMin + time.Duration(s.rng.Float64()*float64(anomalyDurationMax-anomalyDurationMin))
	st.endTime = time.Time{}
}

// Generate produces the next reading for one sensor type, advancing its
// anomaly state as a side effect.
func (s *Simulator) Generate(t models.SensorType) (models.Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.sensors[t]
	if !ok {
		return models.Reading{}, ErrUnknownSensor
	}
	st := s.anomalies[t]
	now := s.now()

	if !st.active && !now.Before(st.nextAt) {
		st.active = true
		st.endTime = now.Add(st.duration)
		log.Printf("[SIM] %s anomaly started, runs until %s", t, st.endTime.Format(time.RFC3339))
	}
	if st.active && !now.Before(st.endTime) {
		log.Printf("[SIM] %s anomaly ended", t)
		s.schedule(st)
	}

	hourOfDay := float64(now.Hour()) + float64(now.Minute())/60
	timeBasedVariation := math.Sin(2*math.Pi*hourOfDay/24) * cycleWeight * sc.NormalVariation
	noise := (s.rng.Float64()*2 - 1) * noiseWeight * sc.NormalVariation

	value := sc.BaseValue + timeBasedVariation + noise
	if st.active {
		progress := float64(now.Sub(st.endTime.Add(-st.duration))) / float64(st.duration)
		shape := math.Sin(math.Pi * progress)
		excess := (sc.SafeMax - sc.BaseValue) * anomalyExcessFactor
		value += shape * excess
	}

	value = math.Max(sc.Min, math.Min(sc.Max, value))
	value = math.Round(value*100) / 100

	return models.Reading{
		Value:     value,
		Unit:      sc.Unit,
		Timestamp: now.Format(time.RFC3339),
	}, nil
}

// GenerateAll produces one reading per configured sensor.
func (s *Simulator) GenerateAll() map[models.SensorType]models.Reading {
	readings := make(map[models.SensorType]models.Reading, len(s.sensors))
	for t := range s.sensors {
		r, err := s.Generate(t)
		if err != nil {
			continue
		}
		readings[t] = r
	}
	return readings
}

// Sensors returns the static configuration the simulator runs with.
func (s *Simulator) Sensors() config.SensorsConfig {
	return s.sensors
}
