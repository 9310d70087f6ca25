package services

import (
	"sync/atomic"
	"time"
)

// StatsService holds cumulative request counters. All counters are
// atomic so concurrent requests never lose updates.
type StatsService struct {
	start          time.Time
	totalRequests  atomic.Int64
	totalErrors    atomic.Int64
	latencySamples atomic.Int64
	latencyNanos   atomic.Int64
}

// NewStatsService creates a stats service anchored at the current time.
func NewStatsService() *StatsService {
	return &StatsService{start: time.Now()}
}

// RecordRequest counts one inbound request.
func (s *StatsService) RecordRequest() {
	s.totalRequests.Add(1)
}

// RecordError counts one failed request.
func (s *StatsService) RecordError() {
	s.totalErrors.Add(1)
}

// RecordLatency adds one processing-time sample.
func (s *StatsService) RecordLatency(d time.Duration) {
	s.latencySamples.Add(1)
	s.latencyNanos.Add(d.Nanoseconds())
}

// TotalRequests returns the cumulative request count.
func (s *StatsService) TotalRequests() int64 {
	return s.totalRequests.Load()
}

// TotalErrors returns the cumulative error count.
func (s *StatsService) TotalErrors() int64 {
	return s.totalErrors.Load()
}

// AverageProcessingTime returns the mean recorded processing time in
// seconds, or zero before any sample exists.
func (s *StatsService) AverageProcessingTime() float64 {
	samples := s.latencySamples.Load()
	if samples == 0 {
		return 0
	}
	return float64(s.latencyNanos.Load()) / float64(samples) / 1e9
}

// Uptime returns the time elapsed since process start.
func (s *StatsService) Uptime() time.Duration {
	return time.Since(s.start)
}
