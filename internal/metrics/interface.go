package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncBoardRequests()
	IncBoardErrors()
	ObserveBoardDuration(duration float64)
	IncHostFallbacks()
	IncUpstreamFailures()
	IncRanksBackoffs()
	IncDigestsSent()
	IncDigestsFailed()
	SetStartupTime(duration float64)
}
