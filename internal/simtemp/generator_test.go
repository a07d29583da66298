package simtemp

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRampTriangleWave(t *testing.T) {
	g := newGenerator(func() uint32 { return 0 })

	values := make([]int32, 0, 300)
	for i := 0; i < 300; i++ {
		values = append(values, g.next(ModeRamp))
	}

	assert.Equal(t, int32(rampStartMilliC+rampStepMilliC), values[0])

	sawMax := false
	sawMin := false
	for i, v := range values {
		require.LessOrEqual(t, v, int32(rampMaxMilliC), "ramp exceeded upper bound at tick %d", i)
		require.GreaterOrEqual(t, v, int32(rampMinMilliC), "ramp went below lower bound at tick %d", i)

		if i == 0 {
			continue
		}
		step := v - values[i-1]
		require.True(t, step == rampStepMilliC || step == -rampStepMilliC,
			"ramp must move in %d mC steps, got %d at tick %d", rampStepMilliC, step, i)

		// Bounce points flip the direction exactly at the bounds
		if values[i-1] == rampMaxMilliC {
			sawMax = true
			assert.Equal(t, int32(rampMaxMilliC-rampStepMilliC), v)
		}
		if values[i-1] == rampMinMilliC {
			sawMin = true
			assert.Equal(t, int32(rampMinMilliC+rampStepMilliC), v)
		}
	}

	assert.True(t, sawMax, "300 ticks must reach the upper bounce point")
	assert.True(t, sawMin, "300 ticks must reach the lower bounce point")
}

func TestRampStateSurvivesModeSwitch(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	g := newGenerator(r.Uint32)

	var last int32
	for i := 0; i < 3; i++ {
		last = g.next(ModeRamp)
	}
	assert.Equal(t, int32(rampStartMilliC+3*rampStepMilliC), last)

	// A detour through the other modes must not reset the ramp
	g.next(ModeNormal)
	g.next(ModeNoisy)

	assert.Equal(t, last+rampStepMilliC, g.next(ModeRamp))
}

func TestNoisyStaysInBand(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	g := newGenerator(r.Uint32)

	for i := 0; i < 10000; i++ {
		v := g.next(ModeNoisy)
		require.GreaterOrEqual(t, v, int32(noisyMinMilliC), "sample %d", i)
		require.LessOrEqual(t, v, int32(noisyMaxMilliC), "sample %d", i)
	}
}

func TestNormalJitterBand(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	g := newGenerator(r.Uint32)

	for i := 0; i < 10000; i++ {
		v := g.next(ModeNormal)
		require.GreaterOrEqual(t, v, int32(normalBaseMilliC-normalJitterMilliC), "sample %d", i)
		require.Less(t, v, int32(normalBaseMilliC+normalJitterMilliC), "sample %d", i)
	}
}

func TestParseMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Mode
	}{
		{"normal", ModeNormal},
		{"noisy", ModeNoisy},
		{"ramp", ModeRamp},
	} {
		m, err := ParseMode(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, m)
		assert.Equal(t, tc.in, m.String())
	}

	_, err := ParseMode("chaotic")
	require.Error(t, err)
}
