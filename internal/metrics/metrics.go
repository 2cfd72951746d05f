package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ticksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nigraan",
			Name:      "ticks_total",
			Help:      "Telemetry ticks executed, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	alertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nigraan",
			Name:      "alerts_total",
			Help:      "Safety alerts raised, partitioned by sensor type.",
		},
		[]string{"sensor"},
	)

	connectedClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nigraan",
			Name:      "connected_clients",
			Help:      "Currently connected realtime clients.",
		},
	)

	sinkWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nigraan",
			Name:      "sink_write_failures_total",
			Help:      "Durable alert writes that failed.",
		},
	)
)

// Register attaches all collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ticksTotal,
		alertsTotal,
		connectedClients,
		sinkWriteFailures,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveTick counts one executed tick.
func ObserveTick(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	ticksTotal.WithLabelValues(outcome).Inc()
}

// ObserveAlert counts one raised alert for a sensor.
func ObserveAlert(sensor string) {
	alertsTotal.WithLabelValues(sensor).Inc()
}

// SetConnectedClients records the current realtime client count.
func SetConnectedClients(n int) {
	connectedClients.Set(float64(n))
}

// ObserveSinkFailure counts one failed durable alert write.
func ObserveSinkFailure() {
	sinkWriteFailures.Inc()
}
