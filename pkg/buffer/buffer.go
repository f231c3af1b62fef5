// Package buffer provides a resizable byte buffer with explicit
// capacity control, used as the target for compression codecs.
package buffer

// Buffer is a growable byte buffer. Unlike bytes.Buffer it exposes its
// capacity and lets callers resize in place, preserving content or not.
type Buffer struct {
	data []byte
	used int
}

// New creates a buffer with the given capacity.
func New(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, capacity)}
}

// NewFrom creates a buffer holding a copy of b.
func NewFrom(b []byte) *Buffer {
	buf := &Buffer{data: make([]byte, len(b)), used: len(b)}
	copy(buf.data, b)
	return buf
}

// Len is the number of bytes written.
func (b *Buffer) Len() int { return b.used }

// Cap is the buffer's current capacity.
func (b *Buffer) Cap() int { return len(b.data) }

// Bytes returns the written content. The slice aliases the buffer and
// is valid until the next Write or Resize.
func (b *Buffer) Bytes() []byte { return b.data[:b.used] }

// Reset discards the content, keeping capacity.
func (b *Buffer) Reset() { b.used = 0 }

// Resize sets the capacity. With preserve, existing content survives up
// to the new capacity; otherwise content is discarded.
func (b *Buffer) Resize(capacity int, preserve bool) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == len(b.data) {
		if !preserve {
			b.used = 0
		}
		return
	}
	data := make([]byte, capacity)
	if preserve {
		n := copy(data, b.data[:b.used])
		b.used = n
	} else {
		b.used = 0
	}
	b.data = data
}

// Write appends p, growing capacity as needed. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	need := b.used + len(p)
	if need > len(b.data) {
		capacity := len(b.data) * 2
		if capacity < need {
			capacity = need
		}
		b.Resize(capacity, true)
	}
	copy(b.data[b.used:], p)
	b.used = need
	return len(p), nil
}
