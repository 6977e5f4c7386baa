package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		BoardRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_board_requests_total",
			Help: "The total number of board requests served across all modes.",
		}),
		BoardErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_board_errors_total",
			Help: "The total number of board requests that ended in an error envelope.",
		}),
		BoardDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fmv_board_request_duration_seconds",
			Help:    "The duration of board request processing including upstream joins.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		HostFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_espn_host_fallbacks_total",
			Help: "The total number of league fetches served by the main host after the reads host failed.",
		}),
		UpstreamFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_espn_upstream_failures_total",
			Help: "The total number of league fetches that failed on every host.",
		}),
		RanksBackoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_ranks_week_backoffs_total",
			Help: "The total number of rankings loads that served a CSV older than the requested week.",
		}),
		DigestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_digests_sent_total",
			Help: "The total number of free-agent digests successfully sent.",
		}),
		DigestsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fmv_digests_failed_total",
			Help: "The total number of free-agent digests that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fmv_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.BoardRequests,
		s.BoardErrors,
		s.BoardDuration,
		s.HostFallbacks,
		s.UpstreamFailures,
		s.RanksBackoffs,
		s.DigestsSent,
		s.DigestsFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncBoardRequests() {
	s.BoardRequests.Inc()
}

func (s *Service) IncBoardErrors() {
	s.BoardErrors.Inc()
}

func (s *Service) ObserveBoardDuration(duration float64) {
	s.BoardDuration.Observe(duration)
}

func (s *Service) IncHostFallbacks() {
	s.HostFallbacks.Inc()
}

func (s *Service) IncUpstreamFailures() {
	s.UpstreamFailures.Inc()
}

func (s *Service) IncRanksBackoffs() {
	s.RanksBackoffs.Inc()
}

func (s *Service) IncDigestsSent() {
	s.DigestsSent.Inc()
}

func (s *Service) IncDigestsFailed() {
	s.DigestsFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
