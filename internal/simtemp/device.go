package simtemp

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
)

// Configuration bounds and defaults, shared with the textual attribute
// surface and the daemon configuration.
const (
	SamplingMSMin = 1
	SamplingMSMax = 10000

	ThresholdMCMin = -40000
	ThresholdMCMax = 125000

	DefaultSamplingMS  = 100
	DefaultThresholdMC = 45000
)

// Config holds the runtime-tunable device parameters.
type Config struct {
	SamplingMS  uint32
	ThresholdMC int32
	Mode        Mode
}

func DefaultConfig() Config {
	return Config{
		SamplingMS:  DefaultSamplingMS,
		ThresholdMC: DefaultThresholdMC,
		Mode:        ModeNormal,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.SamplingMS < SamplingMSMin || c.SamplingMS > SamplingMSMax {
		return errFactory.WithData(ErrInvalidConfig, c.SamplingMS)
	}
	if c.ThresholdMC < ThresholdMCMin || c.ThresholdMC > ThresholdMCMax {
		return errFactory.WithData(ErrInvalidConfig, c.ThresholdMC)
	}
	if !c.Mode.IsValid() {
		return errFactory.WithData(ErrInvalidMode, c.Mode)
	}

	return nil
}

// Option customizes a Device at construction time.
type Option func(*Device)

// WithClock replaces the monotonic clock used for sample timestamps.
func WithClock(now func() int64) Option {
	return func(d *Device) {
		d.clock = now
	}
}

// WithRandSource replaces the randomness source used by the normal and
// noisy generation modes.
func WithRandSource(r func() uint32) Option {
	return func(d *Device) {
		d.randSrc = r
	}
}

var bootTime = time.Now()

// defaultClock never goes backward: it reports nanoseconds since process
// start from the runtime's monotonic reading.
func defaultClock() int64 {
	return int64(time.Since(bootTime))
}

// Device is one simulated sensor instance. Every operation goes through an
// explicit handle; there is no process-wide device. Two independent lock
// domains: the ring buffer's fast mutex (see ringBuffer) and cfgMu, the
// slower configuration mutex. They are never held together.
type Device struct {
	// Configuration store, guarded by cfgMu. The tick snapshots these
	// once per tick before touching the ring.
	cfgMu       sync.Mutex
	samplingMS  uint32
	thresholdMC int32
	mode        Mode

	ring     ringBuffer
	gen      *generator
	detector thresholdDetector
	stats    statistics

	clock   func() int64
	randSrc func() uint32

	// Scheduler state, guarded by lifeMu.
	lifeMu  sync.Mutex
	armed   bool
	closed  bool
	stopCh  chan struct{}
	rearmCh chan time.Duration
	wg      sync.WaitGroup

	// Reader signaling. wakeCh is replaced and the old one closed to
	// wake every blocked reader; waiters gates the broadcast so the
	// tick does no work when nobody is blocked.
	notifyMu sync.Mutex
	wakeCh   chan struct{}
	waiters  atomic.Int32
	done     chan struct{}
}

// New builds a Device with the given configuration. The device starts
// quiescent; call Start to begin sampling.
func New(cfg Config, opts ...Option) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Device{
		samplingMS:  cfg.SamplingMS,
		thresholdMC: cfg.ThresholdMC,
		mode:        cfg.Mode,
		clock:       defaultClock,
		randSrc:     rand.Uint32,
		rearmCh:     make(chan time.Duration, 1),
		wakeCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(d)
	}

	d.gen = newGenerator(d.randSrc)

	return d, nil
}

// Start arms the sampling scheduler. The first tick fires one sampling
// interval after the call.
func (d *Device) Start() error {
	errFactory := errors.New()

	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	if d.closed {
		return errFactory.New(ErrClosed)
	}
	if d.armed {
		return errFactory.WithMessage(errors.ErrInvalidOperation, "sampling already armed")
	}

	d.stopCh = make(chan struct{})
	d.wg.Add(1)
	go d.run(d.stopCh)
	d.armed = true

	logger.Debug().Uint32("sampling_ms", d.SamplingMS()).Msg("Sampling armed")

	return nil
}

// Stop cancels the pending tick and waits for any in-flight tick to finish
// before returning, so no tick touches device state after it returns.
// Stopping a quiescent device is a no-op. Buffered samples stay readable.
func (d *Device) Stop() error {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	d.stopLocked()

	return nil
}

func (d *Device) stopLocked() {
	if !d.armed {
		return
	}

	close(d.stopCh)
	d.wg.Wait()
	d.armed = false

	logger.Debug().Msg("Sampling stopped")
}

// Close tears the device down: stops the scheduler and wakes every blocked
// reader with a closed error. Remaining buffered samples are discarded with
// the device. Idempotent.
func (d *Device) Close() error {
	d.lifeMu.Lock()
	defer d.lifeMu.Unlock()

	if d.closed {
		return nil
	}

	d.stopLocked()
	d.closed = true
	close(d.done)

	return nil
}

// run is the scheduler goroutine: a two-state machine (armed while running,
// stopped once stopCh closes) driving one tick per interval. Each tick
// re-arms relative to its own completion, so systemic delay accumulates
// instead of being corrected; that is the chosen cadence policy.
func (d *Device) run(stop <-chan struct{}) {
	defer d.wg.Done()

	timer := time.NewTimer(d.interval())
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case iv := <-d.rearmCh:
			// Reconfiguration takes effect immediately, not at the
			// next natural tick.
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(iv)
		case <-timer.C:
			d.tick()
			timer.Reset(d.interval())
		}
	}
}

// tick produces one sample. It must never block beyond the two short
// critical sections (config snapshot, ring push) and allocates nothing on
// the push path.
func (d *Device) tick() {
	d.cfgMu.Lock()
	mode := d.mode
	threshold := d.thresholdMC
	d.cfgMu.Unlock()

	temp := d.gen.next(mode)

	flags := FlagNewSample
	if d.detector.update(temp, threshold) {
		flags |= FlagThresholdCrossed
		d.stats.thresholdAlerts.Add(1)
	}

	s := Sample{
		Timestamp:  d.clock(),
		TempMilliC: temp,
		Flags:      flags,
	}

	if !d.ring.push(s) {
		// Drop-newest: the queued samples stay, the fresh one is lost.
		d.stats.droppedSamples.Add(1)
		logger.Debug().Str("error_code", string(ErrBufferFull)).Msg("Sample dropped: ring buffer full")
	}

	d.stats.totalSamples.Add(1)

	if d.waiters.Load() > 0 {
		d.wakeAll()
	}
}

func (d *Device) interval() time.Duration {
	return time.Duration(d.SamplingMS()) * time.Millisecond
}

// wakeAll makes every blocked reader runnable. Readers recheck buffer
// state after waking instead of assuming it.
func (d *Device) wakeAll() {
	d.notifyMu.Lock()
	ch := d.wakeCh
	d.wakeCh = make(chan struct{})
	d.notifyMu.Unlock()
	close(ch)
}

func (d *Device) wakeChan() <-chan struct{} {
	d.notifyMu.Lock()
	ch := d.wakeCh
	d.notifyMu.Unlock()

	return ch
}

// SamplingMS returns the current sampling interval in milliseconds.
func (d *Device) SamplingMS() uint32 {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.samplingMS
}

// ThresholdMC returns the current alert threshold in milli-Celsius.
func (d *Device) ThresholdMC() int32 {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.thresholdMC
}

// Mode returns the current generation mode.
func (d *Device) Mode() Mode {
	d.cfgMu.Lock()
	defer d.cfgMu.Unlock()
	return d.mode
}

// Stats returns a snapshot of the device counters.
func (d *Device) Stats() Stats {
	return d.stats.snapshot()
}

// SetSamplingInterval reconfigures the sampling period. While armed, the
// pending tick is cancelled and rescheduled with the new interval right
// away. Out-of-range values are rejected and the previous value stays in
// effect.
func (d *Device) SetSamplingInterval(ms uint32) error {
	if ms < SamplingMSMin || ms > SamplingMSMax {
		return errors.New().WithData(ErrInvalidConfig, ms)
	}

	d.cfgMu.Lock()
	d.samplingMS = ms
	// Replace any pending re-arm request; only the latest matters.
	// Non-blocking on both ends because every sender holds cfgMu.
	select {
	case <-d.rearmCh:
	default:
	}
	d.rearmCh <- time.Duration(ms) * time.Millisecond
	d.cfgMu.Unlock()

	logger.Debug().Uint32("sampling_ms", ms).Msg("Sampling interval reconfigured")

	return nil
}

// SetThreshold reconfigures the alert threshold, effective on the next
// tick. Out-of-range values are rejected without mutating state.
func (d *Device) SetThreshold(mC int32) error {
	if mC < ThresholdMCMin || mC > ThresholdMCMax {
		return errors.New().WithData(ErrInvalidConfig, mC)
	}

	d.cfgMu.Lock()
	d.thresholdMC = mC
	d.cfgMu.Unlock()

	return nil
}

// SetMode switches the generation mode, effective on the next tick. Ramp
// state is preserved across switches.
func (d *Device) SetMode(m Mode) error {
	if !m.IsValid() {
		return errors.New().WithData(ErrInvalidMode, m)
	}

	d.cfgMu.Lock()
	d.mode = m
	d.cfgMu.Unlock()

	return nil
}
