package simtemp

import (
	"context"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// Readiness reports which read conditions currently hold without blocking.
type Readiness uint8

const (
	ReadinessNone     Readiness = 0
	ReadinessReadable Readiness = 1 << 0 // a read would return a sample
	ReadinessUrgent   Readiness = 1 << 1 // temperature is above the threshold
)

// Readable reports whether a read would succeed without suspending.
func (r Readiness) Readable() bool {
	return r&ReadinessReadable != 0
}

// Urgent reports the priority condition: the threshold latch is set. It is
// independent of buffer occupancy, so it can hold while nothing is
// readable.
func (r Readiness) Urgent() bool {
	return r&ReadinessUrgent != 0
}

// Read blocks until a sample is available and returns it. The wait is
// cancelled by ctx (read_interrupted, nothing consumed) and by device
// teardown (device_closed).
func (d *Device) Read(ctx context.Context) (Sample, error) {
	d.stats.readCount.Add(1)
	return d.readBlocking(ctx)
}

func (d *Device) readBlocking(ctx context.Context) (Sample, error) {
	errFactory := errors.New()

	for {
		select {
		case <-d.done:
			return Sample{}, errFactory.New(ErrClosed)
		default:
		}

		// Register as a waiter before checking emptiness so a push
		// between the check and the wait still broadcasts.
		wake := d.wakeChan()
		d.waiters.Add(1)

		if s, ok := d.ring.pop(); ok {
			d.waiters.Add(-1)
			return s, nil
		}

		select {
		case <-ctx.Done():
			d.waiters.Add(-1)
			return Sample{}, errFactory.Wrap(ErrInterrupted, ctx.Err())
		case <-d.done:
			d.waiters.Add(-1)
			return Sample{}, errFactory.New(ErrClosed)
		case <-wake:
			d.waiters.Add(-1)
		}
	}
}

// TryRead attempts an immediate read and never suspends. Returns
// would_block when the buffer is empty.
func (d *Device) TryRead() (Sample, error) {
	d.stats.readCount.Add(1)

	if s, ok := d.ring.pop(); ok {
		return s, nil
	}

	return Sample{}, errors.New().New(ErrWouldBlock)
}

// ReadRecord performs a blocking read and encodes the sample into dst in
// the 16-byte wire format, returning the number of bytes written. A dst
// shorter than RecordSize fails up front without consuming a sample.
func (d *Device) ReadRecord(ctx context.Context, dst []byte) (int, error) {
	d.stats.readCount.Add(1)

	if len(dst) < RecordSize {
		return 0, errors.New().WithData(ErrBufferTooSmall, len(dst))
	}

	s, err := d.readBlocking(ctx)
	if err != nil {
		return 0, err
	}

	return s.EncodeRecord(dst)
}

// Poll reports readiness for consumers that multiplex waiting across
// several conditions instead of blocking in Read.
func (d *Device) Poll() Readiness {
	d.stats.pollCount.Add(1)

	r := ReadinessNone
	if !d.ring.empty() {
		r |= ReadinessReadable
	}
	if d.detector.isCrossed() {
		r |= ReadinessUrgent
	}

	return r
}
