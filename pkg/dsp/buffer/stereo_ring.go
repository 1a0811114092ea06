package buffer

import (
	"sync/atomic"

	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
)

// DefaultCapacity is the number of stereo pairs in one scope rotation.
const DefaultCapacity = 1024

// freshBit marks the ready slot as published but not yet acquired.
const freshBit uint32 = 1 << 31

// Snapshot is one complete rotation of the ring as seen by the consumer.
// The slices alias ring memory and stay valid until the next Acquire.
type Snapshot struct {
	Left        []float32
	Right       []float32
	Correlation float64 // stereo correlation of this rotation
	Sequence    uint64  // rotation number, 0 before the first publish
}

// Len returns the number of stereo pairs in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Left)
}

// RingStats reports handoff activity.
type RingStats struct {
	Published uint64
	Acquired  uint64
}

type ringSlot struct {
	left        []float32
	right       []float32
	correlation float64
	sequence    uint64
}

// StereoRing is a fixed-capacity two-channel circular buffer shared between
// one producer (the audio callback) and one consumer (the render tick).
//
// The producer fills a private slot from the write cursor and wraps to zero at
// the capacity boundary. Every completed rotation is published by atomically
// exchanging the private slot with the shared ready slot. The consumer swaps
// its own slot with the ready slot only when a fresh rotation is waiting, so
// neither side ever touches a slot the other one owns.
type StereoRing struct {
	slots    [3]ringSlot
	capacity int

	// producer-owned
	back   int
	cursor int

	// consumer-owned
	front int

	ready     atomic.Uint32
	published atomic.Uint64
	acquired  atomic.Uint64
}

// NewStereoRing allocates a ring holding capacity stereo pairs per rotation.
func NewStereoRing(capacity int) *StereoRing {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	r := &StereoRing{capacity: capacity}
	for i := range r.slots {
		r.slots[i].left = make([]float32, capacity)
		r.slots[i].right = make([]float32, capacity)
	}
	r.Reset()
	return r
}

// Capacity returns the number of stereo pairs per rotation.
func (r *StereoRing) Capacity() int {
	return r.capacity
}

// Write copies samples into the ring starting at the write cursor. A nil
// right channel duplicates left (mono input). When the boundary is reached
// mid-call the completed rotation is published and writing continues at 0.
//
// Write must only be called from the audio context and never concurrently
// with itself. It does not allocate or block.
func (r *StereoRing) Write(left, right []float32) {
	n := len(left)
	if right == nil {
		right = left
	} else if len(right) < n {
		n = len(right)
	}

	for done := 0; done < n; {
		slot := &r.slots[r.back]
		k := copy(slot.left[r.cursor:], left[done:n])
		copy(slot.right[r.cursor:r.cursor+k], right[done:done+k])

		r.cursor += k
		done += k

		if r.cursor == r.capacity {
			r.publish()
			r.cursor = 0
		}
	}
}

// publish hands the completed back slot to the consumer side.
func (r *StereoRing) publish() {
	slot := &r.slots[r.back]
	slot.correlation = analysis.Correlation(slot.left, slot.right)
	slot.sequence = r.published.Add(1)

	prev := r.ready.Swap(uint32(r.back) | freshBit)
	r.back = int(prev &^ freshBit)
}

// Acquire returns the newest complete rotation and reports whether it was
// published since the previous call. Render context only.
func (r *StereoRing) Acquire() (Snapshot, bool) {
	fresh := false
	if r.ready.Load()&freshBit != 0 {
		prev := r.ready.Swap(uint32(r.front))
		r.front = int(prev &^ freshBit)
		r.acquired.Add(1)
		fresh = true
	}

	slot := &r.slots[r.front]
	return Snapshot{
		Left:        slot.left,
		Right:       slot.right,
		Correlation: slot.correlation,
		Sequence:    slot.sequence,
	}, fresh
}

// Reset clears every slot and rewinds the cursor. It must only be called
// while neither the producer nor the consumer is running.
func (r *StereoRing) Reset() {
	for i := range r.slots {
		r.clearSlot(i)
	}

	r.back = 0
	r.front = 2
	r.cursor = 0
	r.ready.Store(1)
	r.published.Store(0)
	r.acquired.Store(0)
}

// Rewind restarts the producer side for a new stream: the cursor returns to
// 0, the partial rotation is discarded and an unconsumed rotation is
// withdrawn. It runs in the audio context while the stream is stopped and
// may overlap with Acquire. The consumer keeps its current slot until the
// next rotation is published.
func (r *StereoRing) Rewind() {
	r.cursor = 0
	r.clearSlot(r.back)

	prev := r.ready.Swap(uint32(r.back))
	r.back = int(prev &^ freshBit)
	r.clearSlot(r.back)
}

func (r *StereoRing) clearSlot(i int) {
	clear(r.slots[i].left)
	clear(r.slots[i].right)
	r.slots[i].correlation = 0
	r.slots[i].sequence = 0
}

// Stats returns publish/acquire counters. Safe from any goroutine.
func (r *StereoRing) Stats() RingStats {
	return RingStats{
		Published: r.published.Load(),
		Acquired:  r.acquired.Load(),
	}
}
