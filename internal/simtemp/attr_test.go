package simtemp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/simtempd/internal/errors"
)

func TestAttrRoundtrip(t *testing.T) {
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	got, err := d.Attr(AttrSamplingMS)
	require.NoError(t, err)
	assert.Equal(t, "100", got)

	got, err = d.Attr(AttrThresholdMC)
	require.NoError(t, err)
	assert.Equal(t, "45000", got)

	got, err = d.Attr(AttrMode)
	require.NoError(t, err)
	assert.Equal(t, "normal", got)

	require.NoError(t, d.SetAttr(AttrSamplingMS, "250"))
	require.NoError(t, d.SetAttr(AttrThresholdMC, "-5000"))
	require.NoError(t, d.SetAttr(AttrMode, "ramp"))

	assert.Equal(t, uint32(250), d.SamplingMS())
	assert.Equal(t, int32(-5000), d.ThresholdMC())
	assert.Equal(t, ModeRamp, d.Mode())
}

func TestSetAttrTrimsWhitespace(t *testing.T) {
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	// Shell writers tend to append a trailing newline
	require.NoError(t, d.SetAttr(AttrSamplingMS, "500\n"))
	assert.Equal(t, uint32(500), d.SamplingMS())

	require.NoError(t, d.SetAttr(AttrMode, " noisy "))
	assert.Equal(t, ModeNoisy, d.Mode())
}

func TestSetAttrRejectsInvalidInput(t *testing.T) {
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	tests := []struct {
		name  string
		attr  string
		value string
		code  errors.ErrorCode
	}{
		{"non-numeric interval", AttrSamplingMS, "fast", ErrInvalidConfig},
		{"interval below minimum", AttrSamplingMS, "0", ErrInvalidConfig},
		{"interval above maximum", AttrSamplingMS, "10001", ErrInvalidConfig},
		{"negative interval", AttrSamplingMS, "-1", ErrInvalidConfig},
		{"non-numeric threshold", AttrThresholdMC, "hot", ErrInvalidConfig},
		{"threshold below minimum", AttrThresholdMC, "-40001", ErrInvalidConfig},
		{"threshold above maximum", AttrThresholdMC, "125001", ErrInvalidConfig},
		{"unknown mode", AttrMode, "chaotic", ErrInvalidMode},
		{"read-only stats", AttrStats, "0", ErrReadOnlyAttr},
		{"unknown attribute", "voltage_mV", "3300", ErrUnknownAttr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.SetAttr(tt.attr, tt.value)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}

	// Rejection leaves the previous configuration in effect
	assert.Equal(t, uint32(DefaultSamplingMS), d.SamplingMS())
	assert.Equal(t, int32(DefaultThresholdMC), d.ThresholdMC())
	assert.Equal(t, ModeNormal, d.Mode())
}

func TestAttrUnknown(t *testing.T) {
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	_, err = d.Attr("voltage_mV")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ErrUnknownAttr))
}

func TestAttrStats(t *testing.T) {
	d, err := New(DefaultConfig())
	require.NoError(t, err)
	defer d.Close()

	d.TryRead()
	d.Poll()
	d.Poll()

	got, err := d.Attr(AttrStats)
	require.NoError(t, err)
	assert.Equal(t, "total_samples: 0\nthreshold_alerts: 0\nread_count: 1\npoll_count: 2\n", got)
}
