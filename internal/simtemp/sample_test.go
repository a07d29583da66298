package simtemp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mutker/simtempd/internal/errors"
)

func TestEncodeRecordLayout(t *testing.T) {
	s := Sample{
		Timestamp:  0x0102030405060708,
		TempMilliC: -1000,
		Flags:      FlagNewSample | FlagThresholdCrossed,
	}

	buf := make([]byte, RecordSize)
	n, err := s.EncodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, RecordSize, n)

	// Little-endian u64 timestamp
	assert.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf[0:8])
	// -1000 as little-endian two's complement s32
	assert.Equal(t, []byte{0x18, 0xFC, 0xFF, 0xFF}, buf[8:12])
	// u32 flags
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00}, buf[12:16])

	decoded, err := DecodeRecord(buf)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)
}

func TestEncodeRecordShortBuffer(t *testing.T) {
	s := Sample{Timestamp: 1, TempMilliC: 45000, Flags: FlagNewSample}

	buf := make([]byte, RecordSize-1)
	n, err := s.EncodeRecord(buf)
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, errors.IsCode(err, ErrBufferTooSmall))

	// No partial write
	for i, b := range buf {
		assert.Zero(t, b, "byte %d must be untouched", i)
	}

	_, err = DecodeRecord(buf)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, ErrBufferTooSmall))
}
