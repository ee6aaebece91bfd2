package metrics

import (
	"log/slog"
	"sync"
	"time"

	utils "kwscan/internal/utils"
)

// Metrics counts document extractions over the lifetime of a batch service.
type Metrics struct {
	mu                 sync.Mutex
	totalJobs          int
	successfulJobs     int
	failedJobs         int
	totalExecutionTime time.Duration
	executionCount     int
	batches            int
}

type Snapshot struct {
	TotalJobs        int
	SuccessfulJobs   int
	FailedJobs       int
	Batches          int
	AvgExecutionTime time.Duration
}

func (m *Metrics) RecordSuccess(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalJobs++
	m.successfulJobs++
	m.totalExecutionTime += duration
	m.executionCount++
}

func (m *Metrics) RecordFailure(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalJobs++
	m.failedJobs++
	m.totalExecutionTime += duration
	m.executionCount++
}

func (m *Metrics) RecordBatch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	avgExecTime := time.Duration(0)
	if m.executionCount > 0 {
		avgExecTime = m.totalExecutionTime / time.Duration(m.executionCount)
	}

	return Snapshot{
		TotalJobs:        m.totalJobs,
		SuccessfulJobs:   m.successfulJobs,
		FailedJobs:       m.failedJobs,
		Batches:          m.batches,
		AvgExecutionTime: avgExecTime,
	}
}

func (m *Metrics) PrintMetrics(log *slog.Logger) {
	s := m.Snapshot()

	log.Info("extraction metrics",
		"batches", s.Batches,
		"documents", s.TotalJobs,
		"extracted", s.SuccessfulJobs,
		"failed", s.FailedJobs,
		"avg_extraction_time", utils.FormatDuration(s.AvgExecutionTime),
	)
}
