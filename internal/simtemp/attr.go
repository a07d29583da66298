package simtemp

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// Textual attribute names, matching the device's original configuration
// surface.
const (
	AttrSamplingMS  = "sampling_ms"
	AttrThresholdMC = "threshold_mC"
	AttrMode        = "mode"
	AttrStats       = "stats"
)

// Attr returns the textual value of a device attribute.
func (d *Device) Attr(name string) (string, error) {
	switch name {
	case AttrSamplingMS:
		return strconv.FormatUint(uint64(d.SamplingMS()), 10), nil
	case AttrThresholdMC:
		return strconv.FormatInt(int64(d.ThresholdMC()), 10), nil
	case AttrMode:
		return d.Mode().String(), nil
	case AttrStats:
		s := d.Stats()
		return fmt.Sprintf(
			"total_samples: %d\nthreshold_alerts: %d\nread_count: %d\npoll_count: %d\n",
			s.TotalSamples, s.ThresholdAlerts, s.ReadCount, s.PollCount), nil
	default:
		return "", errors.New().WithData(ErrUnknownAttr, name)
	}
}

// SetAttr parses and applies a textual attribute mutation. Invalid input
// is rejected without mutating state; the previous value stays in effect.
func (d *Device) SetAttr(name, value string) error {
	errFactory := errors.New()
	value = strings.TrimSpace(value)

	switch name {
	case AttrSamplingMS:
		ms, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return errFactory.Wrap(ErrInvalidConfig, err)
		}
		return d.SetSamplingInterval(uint32(ms))
	case AttrThresholdMC:
		mC, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return errFactory.Wrap(ErrInvalidConfig, err)
		}
		return d.SetThreshold(int32(mC))
	case AttrMode:
		m, err := ParseMode(value)
		if err != nil {
			return err
		}
		return d.SetMode(m)
	case AttrStats:
		return errFactory.WithData(ErrReadOnlyAttr, name)
	default:
		return errFactory.WithData(ErrUnknownAttr, name)
	}
}
