package services

import (
	"log"
	"sync"
	"time"

	"nigraan/internal/metrics"
)

// Scheduler drives the telemetry loop: on every tick it generates one
// reading per sensor, records it, evaluates safety and fans the results out
// over the hub.
type Scheduler struct {
	sim     *Simulator
	history *HistoryService
	safety  *SafetyService
	hub     *Hub

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewScheduler wires the tick pipeline together.
func NewScheduler(sim *Simulator, history *HistoryService, safety *SafetyService, hub *Hub) *Scheduler {
	return &Scheduler{
		sim:     sim,
		history: history,
		safety:  safety,
		hub:     hub,
	}
}

// Start launches the tick loop. A second Start while running is a no-op.
func (s *Scheduler) Start(interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		log.Printf("[SCHED] start ignored, already running")
		return
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()

	log.Printf("[SCHED] telemetry loop started (interval: %v)", interval)
}

// Stop cancels the tick loop. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	close(s.done)
	log.Println("[SCHED] telemetry loop stopped")
}

// Running reports whether the tick loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// tick runs one generation/evaluation/broadcast cycle. A failing tick is
// logged and swallowed so the loop keeps going.
func (s *Scheduler) tick() {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveTick(false)
			log.Printf("[SCHED] tick failed: %v", r)
		}
	}()

	readings := s.sim.GenerateAll()
	s.history.Append(readings)
	alerts := s.safety.Evaluate(readings)

	s.hub.Broadcast(ChannelSensorReadings, readings)
	if len(alerts) > 0 {
		s.hub.Broadcast(ChannelSafetyAlerts, alerts)
		for _, a := range alerts {
			s.hub.Broadcast(ChannelSafetyAlert, a)
			metrics.ObserveAlert(string(a.Type))
		}
	}
	metrics.ObserveTick(true)
}
