package logging

import (
	"os"
	"sync"
)

// RingBuffer keeps the most recent bytes written to it, discarding the oldest.
// It backs the crash dump written on SIGUSR1.
type RingBuffer struct {
	mu      sync.Mutex
	data    []byte
	next    int  // write position
	wrapped bool // data has been overwritten at least once
}

// NewRingBuffer creates a ring buffer holding up to size bytes.
func NewRingBuffer(size int) *RingBuffer {
	if size <= 0 {
		size = 2 * 1024 * 1024
	}
	return &RingBuffer{data: make([]byte, size)}
}

// Write implements io.Writer. It never fails.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	n := len(p)
	capacity := len(rb.data)
	if n >= capacity {
		copy(rb.data, p[n-capacity:])
		rb.next = 0
		rb.wrapped = true
		return n, nil
	}

	written := copy(rb.data[rb.next:], p)
	if written < n {
		copy(rb.data, p[written:])
		rb.next = n - written
		rb.wrapped = true
		return n, nil
	}
	rb.next += written
	if rb.next == capacity {
		rb.next = 0
		rb.wrapped = true
	}
	return n, nil
}

// Bytes returns a copy of the contents, oldest first.
func (rb *RingBuffer) Bytes() []byte {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if !rb.wrapped {
		return append([]byte(nil), rb.data[:rb.next]...)
	}
	out := make([]byte, 0, len(rb.data))
	out = append(out, rb.data[rb.next:]...)
	return append(out, rb.data[:rb.next]...)
}

// DumpToFile writes the contents to path, oldest first.
func (rb *RingBuffer) DumpToFile(path string) error {
	return os.WriteFile(path, rb.Bytes(), 0o600)
}
