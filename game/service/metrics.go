package service

import (
	"sync/atomic"
)

// Metrics counts game activity since process start.
type Metrics struct {
	GamesStarted      int64
	Rolls             int64
	RobberEvents      int64
	ResourcesProduced int64
	BuildsSucceeded   int64
	BuildsFailed      int64
}

// MetricsSnapshot is a read-only copy of Metrics for HTTP output.
type MetricsSnapshot struct {
	GamesStarted      int64 `json:"games_started"`
	Rolls             int64 `json:"rolls"`
	RobberEvents      int64 `json:"robber_events"`
	ResourcesProduced int64 `json:"resources_produced"`
	BuildsSucceeded   int64 `json:"builds_succeeded"`
	BuildsFailed      int64 `json:"builds_failed"`
}

func (m *Metrics) IncGamesStarted() {
	atomic.AddInt64(&m.GamesStarted, 1)
}

func (m *Metrics) IncBuildsSucceeded() {
	atomic.AddInt64(&m.BuildsSucceeded, 1)
}

func (m *Metrics) IncBuildsFailed() {
	atomic.AddInt64(&m.BuildsFailed, 1)
}

func (m *Metrics) AddProduced(n int) {
	atomic.AddInt64(&m.ResourcesProduced, int64(n))
}

func (m *Metrics) AddRoll(robber bool) {
	atomic.AddInt64(&m.Rolls, 1)
	if robber {
		atomic.AddInt64(&m.RobberEvents, 1)
	}
}

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		GamesStarted:      atomic.LoadInt64(&m.GamesStarted),
		Rolls:             atomic.LoadInt64(&m.Rolls),
		RobberEvents:      atomic.LoadInt64(&m.RobberEvents),
		ResourcesProduced: atomic.LoadInt64(&m.ResourcesProduced),
		BuildsSucceeded:   atomic.LoadInt64(&m.BuildsSucceeded),
		BuildsFailed:      atomic.LoadInt64(&m.BuildsFailed),
	}
}
