package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	BoardRequests      prometheus.Counter
	BoardErrors        prometheus.Counter
	BoardDuration      prometheus.Histogram
	HostFallbacks      prometheus.Counter
	UpstreamFailures   prometheus.Counter
	RanksBackoffs      prometheus.Counter
	DigestsSent        prometheus.Counter
	DigestsFailed      prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
