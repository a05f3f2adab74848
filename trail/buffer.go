// Package trail records the recent position history of a moving point.
package trail

import (
	"errors"

	"github.com/achilleasa/embers/types"
)

var ErrInvalidCapacity = errors.New("trail: capacity must be positive")

// Buffer is a fixed-capacity, most-recent-first history of positions.
//
// Samples are stored in a backing array twice the buffer capacity. New
// samples are written just before the current head so the live window is
// always contiguous and can be handed out without copying. When the head
// reaches the start of the backing array the live window is moved back to
// the middle; this happens once every capacity pushes so the cost of a push
// stays O(1) amortized and no allocations happen after construction.
type Buffer struct {
	capacity int
	store    []types.Vec3
	head     int
	length   int
}

// Create a new buffer that retains up to capacity samples.
func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	return &Buffer{
		capacity: capacity,
		store:    make([]types.Vec3, 2*capacity),
		head:     2 * capacity,
	}, nil
}

// Push a new sample to the front of the buffer. If the buffer is full the
// oldest sample is dropped.
func (b *Buffer) Push(p types.Vec3) {
	if b.head == 0 {
		keep := b.length
		if keep == b.capacity {
			keep--
		}
		copy(b.store[b.capacity:], b.store[:keep])
		b.head = b.capacity
	}

	b.head--
	b.store[b.head] = p
	if b.length < b.capacity {
		b.length++
	}
}

// Snapshot returns the retained samples, most recent first. The returned
// slice aliases the buffer storage and is only valid until the next Push.
func (b *Buffer) Snapshot() []types.Vec3 {
	return b.store[b.head : b.head+b.length]
}

// Get the i-th most recent sample.
func (b *Buffer) At(i int) types.Vec3 {
	return b.store[b.head+i]
}

// Get the most recent sample. It returns false if the buffer is empty.
func (b *Buffer) Head() (types.Vec3, bool) {
	if b.length == 0 {
		return types.Vec3{}, false
	}
	return b.store[b.head], true
}

// Get the number of retained samples.
func (b *Buffer) Len() int {
	return b.length
}

// Get the buffer capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Drop all samples.
func (b *Buffer) Reset() {
	b.head = 2 * b.capacity
	b.length = 0
}
