package simtemp

import (
	"encoding/binary"

	"codeberg.org/mutker/simtempd/internal/errors"
)

// Sample flags
const (
	FlagNewSample        uint32 = 1 << 0
	FlagThresholdCrossed uint32 = 1 << 1
)

// RecordSize is the wire size of one encoded sample: u64 timestamp,
// s32 temperature, u32 flags, packed little-endian.
const RecordSize = 16

// Sample is one timestamped temperature reading. Immutable once built;
// consumers receive a copy, never a reference into the ring.
type Sample struct {
	Timestamp  int64 // monotonic nanoseconds
	TempMilliC int32
	Flags      uint32
}

// EncodeRecord writes the binary record into dst and returns the number of
// bytes written. Fails without touching dst if it is shorter than RecordSize.
func (s Sample) EncodeRecord(dst []byte) (int, error) {
	if len(dst) < RecordSize {
		return 0, errors.New().WithData(ErrBufferTooSmall, len(dst))
	}

	binary.LittleEndian.PutUint64(dst[0:8], uint64(s.Timestamp))
	binary.LittleEndian.PutUint32(dst[8:12], uint32(s.TempMilliC))
	binary.LittleEndian.PutUint32(dst[12:16], s.Flags)

	return RecordSize, nil
}

// DecodeRecord parses a binary sample record.
func DecodeRecord(src []byte) (Sample, error) {
	if len(src) < RecordSize {
		return Sample{}, errors.New().WithData(ErrBufferTooSmall, len(src))
	}

	return Sample{
		Timestamp:  int64(binary.LittleEndian.Uint64(src[0:8])),
		TempMilliC: int32(binary.LittleEndian.Uint32(src[8:12])),
		Flags:      binary.LittleEndian.Uint32(src[12:16]),
	}, nil
}
