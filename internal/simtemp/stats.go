package simtemp

import "sync/atomic"

// Stats is a point-in-time snapshot of the device counters. All counters
// are monotonic for the lifetime of a Device and reset only by building a
// new one.
type Stats struct {
	TotalSamples    uint64
	ThresholdAlerts uint64
	ReadCount       uint64
	PollCount       uint64
	DroppedSamples  uint64
}

type statistics struct {
	totalSamples    atomic.Uint64
	thresholdAlerts atomic.Uint64
	readCount       atomic.Uint64
	pollCount       atomic.Uint64
	droppedSamples  atomic.Uint64
}

func (s *statistics) snapshot() Stats {
	return Stats{
		TotalSamples:    s.totalSamples.Load(),
		ThresholdAlerts: s.thresholdAlerts.Load(),
		ReadCount:       s.readCount.Load(),
		PollCount:       s.pollCount.Load(),
		DroppedSamples:  s.droppedSamples.Load(),
	}
}
