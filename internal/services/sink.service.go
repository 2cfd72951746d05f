package services

import (
	"log"
	"time"

	"nigraan/internal/config"
	"nigraan/internal/metrics"
	"nigraan/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// InfluxSink records alerts as InfluxDB points through the non-blocking
// write API, so a slow or unreachable server never stalls the tick loop.
// Failed writes are logged and counted, nothing more.
type InfluxSink struct {
	client influxdb2.Client
	write  api.WriteAPI
}

// NewInfluxSink connects the sink and starts draining its async error
// channel. Returns nil when the sink is disabled in config.
func NewInfluxSink(cfg config.InfluxConfig) *InfluxSink {
	if !cfg.Enabled || cfg.URL == "" {
		return nil
	}

	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	write := client.WriteAPI(cfg.Org, cfg.Bucket)

	go func() {
		for err := range write.Errors() {
			metrics.ObserveSinkFailure()
			log.Printf("[SINK] alert write failed: %v", err)
		}
	}()

	log.Printf("[SINK] influx sink enabled (url: %s, bucket: %s)", cfg.URL, cfg.Bucket)
	return &InfluxSink{client: client, write: write}
}

// WriteAlert enqueues one point per alert, tagged by sensor type.
func (s *InfluxSink) WriteAlert(alert models.Alert) {
	p := influxdb2.NewPoint(
		"safety_alert",
		map[string]string{"sensor": string(alert.Type)},
		map[string]interface{}{
			"value":     alert.Value,
			"threshold": alert.Threshold,
			"message":   alert.Message,
		},
		time.Now(),
	)
	s.write.WritePoint(p)
}

// Close flushes buffered points and releases the client.
func (s *InfluxSink) Close() {
	s.write.Flush()
	s.client.Close()
}
