// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosense_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration observes HTTP request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecosense_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TicksTotal counts simulation ticks
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecosense_simulation_ticks_total",
			Help: "Total number of simulation ticks",
		},
	)

	// SpikesTotal counts injected pollution spikes
	SpikesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecosense_simulation_spikes_total",
			Help: "Total number of AQI pollution spikes injected",
		},
	)

	// ChannelValue exposes the latest value of every sensor channel
	ChannelValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ecosense_channel_value",
			Help: "Latest simulated value per sensor channel",
		},
		[]string{"channel"},
	)

	// SinkPublishes counts reading deliveries to sinks
	SinkPublishes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosense_sink_publishes_total",
			Help: "Total number of readings handed to sinks",
		},
		[]string{"sink", "status"},
	)

	// ForecastsTotal counts forecasts by projected level
	ForecastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosense_forecasts_total",
			Help: "Total number of scenario forecasts",
		},
		[]string{"level"},
	)

	// AdvisoryRequests counts advisory lookups by source and outcome
	AdvisoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosense_advisory_requests_total",
			Help: "Total number of advisory requests",
		},
		[]string{"source", "outcome"},
	)

	// CacheOperations counts Redis operations by outcome
	CacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecosense_cache_operations_total",
			Help: "Total number of Redis cache operations",
		},
		[]string{"operation", "status"},
	)

	// AdvisoryLatency observes how long advisories take to resolve
	AdvisoryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecosense_advisory_latency_seconds",
			Help:    "Advisory resolution latency in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5, 10, 20},
		},
		[]string{"source"},
	)
)

// ObserveReading updates the channel gauges from a reading
func ObserveReading(aqi int, co2, pm25, pm10, temperature, humidity float64) {
	ChannelValue.WithLabelValues("aqi").Set(float64(aqi))
	ChannelValue.WithLabelValues("co2").Set(co2)
	ChannelValue.WithLabelValues("pm25").Set(pm25)
	ChannelValue.WithLabelValues("pm10").Set(pm10)
	ChannelValue.WithLabelValues("temperature").Set(temperature)
	ChannelValue.WithLabelValues("humidity").Set(humidity)
}
