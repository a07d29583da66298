package simtemp

import "codeberg.org/mutker/simtempd/internal/errors"

// Mode selects the temperature generation behavior.
type Mode uint8

const (
	ModeNormal Mode = iota // stable around the base with small jitter
	ModeNoisy              // large jitter, clamped to a plausible band
	ModeRamp               // deterministic triangle wave
)

const (
	modeStrNormal = "normal"
	modeStrNoisy  = "noisy"
	modeStrRamp   = "ramp"
)

func (m Mode) String() string {
	switch m {
	case ModeNoisy:
		return modeStrNoisy
	case ModeRamp:
		return modeStrRamp
	default:
		return modeStrNormal
	}
}

// IsValid returns whether the mode is one of the defined generation modes.
func (m Mode) IsValid() bool {
	return m <= ModeRamp
}

// ParseMode maps an attribute string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case modeStrNormal:
		return ModeNormal, nil
	case modeStrNoisy:
		return ModeNoisy, nil
	case modeStrRamp:
		return ModeRamp, nil
	default:
		return ModeNormal, errors.New().WithData(ErrInvalidMode, s)
	}
}

// Generation constants, in milli-degrees Celsius.
const (
	normalBaseMilliC   = 45000
	normalJitterMilliC = 2000

	noisyJitterMilliC = 15000
	noisyMinMilliC    = 30000
	noisyMaxMilliC    = 60000

	rampStartMilliC = 40000
	rampStepMilliC  = 500
	rampMinMilliC   = 30000
	rampMaxMilliC   = 70000
)

// generator holds the temperature state machine. Its mutable state is the
// ramp position and direction, which survive mode switches so that
// re-entering ramp mode resumes where it left off. Only the scheduler
// goroutine calls next, so no locking is needed here.
type generator struct {
	rand      func() uint32
	rampTemp  int32
	ascending bool
}

func newGenerator(rand func() uint32) *generator {
	return &generator{
		rand:      rand,
		rampTemp:  rampStartMilliC,
		ascending: true,
	}
}

// next produces the temperature for one tick in the given mode.
func (g *generator) next(mode Mode) int32 {
	switch mode {
	case ModeNoisy:
		return clampMilliC(normalBaseMilliC+g.jitter(noisyJitterMilliC), noisyMinMilliC, noisyMaxMilliC)
	case ModeRamp:
		if g.ascending {
			g.rampTemp += rampStepMilliC
			if g.rampTemp >= rampMaxMilliC {
				g.rampTemp = rampMaxMilliC
				g.ascending = false
			}
		} else {
			g.rampTemp -= rampStepMilliC
			if g.rampTemp <= rampMinMilliC {
				g.rampTemp = rampMinMilliC
				g.ascending = true
			}
		}
		return g.rampTemp
	default:
		return normalBaseMilliC + g.jitter(normalJitterMilliC)
	}
}

// jitter returns a uniform value in [-span, span).
func (g *generator) jitter(span int32) int32 {
	return int32(g.rand()%uint32(2*span)) - span
}

func clampMilliC(value, minValue, maxValue int32) int32 {
	if value < minValue {
		return minValue
	}
	if value > maxValue {
		return maxValue
	}

	return value
}
