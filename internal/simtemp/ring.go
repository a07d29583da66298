package simtemp

import "sync"

// Ring capacity must stay a power of two so the indices wrap with a mask.
const (
	ringCapacity = 64
	ringMask     = ringCapacity - 1
)

// ringBuffer is a bounded FIFO between the sampling tick (single producer)
// and the read path. head is the next write slot, tail the next read slot;
// empty iff head == tail, full iff (head+1)&mask == tail. One slot is
// sacrificed to tell full from empty, so at most ringCapacity-1 samples are
// live. The mutex covers only the index and slot updates; ordering of the
// stored sample relative to the index becoming visible comes from the
// lock's acquire/release semantics. Overflow drops the incoming sample,
// never the queued ones.
type ringBuffer struct {
	mu      sync.Mutex
	samples [ringCapacity]Sample
	head    uint32
	tail    uint32
}

// push enqueues a sample. Returns false when the buffer is full; the
// buffer's contents are untouched in that case. Allocation-free.
func (rb *ringBuffer) push(s Sample) bool {
	rb.mu.Lock()
	next := (rb.head + 1) & ringMask
	if next == rb.tail {
		rb.mu.Unlock()
		return false
	}
	rb.samples[rb.head] = s
	rb.head = next
	rb.mu.Unlock()

	return true
}

// pop dequeues the oldest sample. Returns false when the buffer is empty.
func (rb *ringBuffer) pop() (Sample, bool) {
	rb.mu.Lock()
	if rb.head == rb.tail {
		rb.mu.Unlock()
		return Sample{}, false
	}
	s := rb.samples[rb.tail]
	rb.tail = (rb.tail + 1) & ringMask
	rb.mu.Unlock()

	return s, true
}

func (rb *ringBuffer) empty() bool {
	rb.mu.Lock()
	e := rb.head == rb.tail
	rb.mu.Unlock()

	return e
}

func (rb *ringBuffer) len() int {
	rb.mu.Lock()
	n := (rb.head - rb.tail) & ringMask
	rb.mu.Unlock()

	return int(n)
}
