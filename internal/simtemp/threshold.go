package simtemp

import "sync/atomic"

// thresholdDetector latches whether the temperature is above the configured
// threshold and reports rising edges. Edge-triggered: one alert per
// excursion above the threshold, not one per sample while above. The latch
// is atomic because the readiness query reads it concurrently with the
// tick; only the tick mutates it.
type thresholdDetector struct {
	crossed atomic.Bool
}

// update advances the latch for one sample and reports whether this sample
// is a rising edge (first sample above the threshold since last dropping
// to or below it).
func (d *thresholdDetector) update(tempMilliC, thresholdMilliC int32) bool {
	if tempMilliC > thresholdMilliC {
		if !d.crossed.Load() {
			d.crossed.Store(true)
			return true
		}
		return false
	}

	d.crossed.Store(false)

	return false
}

func (d *thresholdDetector) isCrossed() bool {
	return d.crossed.Load()
}
