package simtemp

import "codeberg.org/mutker/simtempd/internal/errors"

const (
	// Read path
	ErrWouldBlock  = errors.ErrorCode("simtemp_would_block")
	ErrInterrupted = errors.ErrorCode("simtemp_read_interrupted")
	ErrClosed      = errors.ErrorCode("simtemp_device_closed")

	// Producer path
	ErrBufferFull = errors.ErrorCode("simtemp_buffer_full")

	// Configuration
	ErrInvalidConfig = errors.ErrorCode("simtemp_invalid_config")
	ErrInvalidMode   = errors.ErrorCode("simtemp_invalid_mode")

	// Wire format
	ErrBufferTooSmall = errors.ErrorCode("simtemp_buffer_too_small")

	// Attribute surface
	ErrUnknownAttr  = errors.ErrorCode("simtemp_unknown_attribute")
	ErrReadOnlyAttr = errors.ErrorCode("simtemp_read_only_attribute")
)
