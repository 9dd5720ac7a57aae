package constants

import (
	"time"
)

// API request timeouts
const (
	// HealthCheckTimeout - timeout for the GET /health availability probe (5 seconds)
	HealthCheckTimeout = 5 * time.Second

	// ProcessTimeout - timeout for a POST /process submission (30 seconds)
	// Transaction files are small; the server does all the work, so this bounds
	// server-side processing, not transfer time.
	ProcessTimeout = 30 * time.Second
)

// HTTP Client Timeouts
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second
)

// CLI Concurrency Limits
const (
	// DefaultMaxConcurrent - default concurrent file submissions in batch mode
	DefaultMaxConcurrent = 5

	// MinMaxConcurrent - minimum concurrent submissions (sequential mode)
	MinMaxConcurrent = 1

	// MaxMaxConcurrent - maximum concurrent submissions allowed
	MaxMaxConcurrent = 10
)

// Watch Mode
const (
	// DefaultWatchDebounce - quiet period before a changed file is submitted (500ms)
	// Editors and copy tools often emit several writes per save; the debounce
	// collapses them into one run.
	DefaultWatchDebounce = 500 * time.Millisecond

	// WatchDrainInterval - how often settled watch events are drained (100ms)
	WatchDrainInterval = 100 * time.Millisecond
)

// History
const (
	// DefaultHistoryLimit - default number of runs shown by the history command
	DefaultHistoryLimit = 20
)
