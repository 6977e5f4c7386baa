package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	boardRequests    int
	boardErrors      int
	boardDurations   []float64
	hostFallbacks    int
	upstreamFailures int
	ranksBackoffs    int
	digestsSent      int
	digestsFailed    int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		boardDurations: make([]float64, 0),
	}
}

func (m *Mock) IncBoardRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boardRequests++
}

func (m *Mock) IncBoardErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boardErrors++
}

func (m *Mock) ObserveBoardDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boardDurations = append(m.boardDurations, duration)
}

func (m *Mock) IncHostFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hostFallbacks++
}

func (m *Mock) IncUpstreamFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upstreamFailures++
}

func (m *Mock) IncRanksBackoffs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ranksBackoffs++
}

func (m *Mock) IncDigestsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digestsSent++
}

func (m *Mock) IncDigestsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.digestsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// BoardRequests returns the number of times IncBoardRequests was called.
func (m *Mock) BoardRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boardRequests
}

// BoardErrors returns the number of times IncBoardErrors was called.
func (m *Mock) BoardErrors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.boardErrors
}

// HostFallbacks returns the number of times IncHostFallbacks was called.
func (m *Mock) HostFallbacks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hostFallbacks
}

// UpstreamFailures returns the number of times IncUpstreamFailures was called.
func (m *Mock) UpstreamFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.upstreamFailures
}

// RanksBackoffs returns the number of times IncRanksBackoffs was called.
func (m *Mock) RanksBackoffs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ranksBackoffs
}

// DigestsSent returns the number of times IncDigestsSent was called.
func (m *Mock) DigestsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.digestsSent
}

// DigestsFailed returns the number of times IncDigestsFailed was called.
func (m *Mock) DigestsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.digestsFailed
}
