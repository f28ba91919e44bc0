package scrub

import "sync"

// maxPooledBuffer caps the capacity kept in the pool so one huge body does
// not pin memory for the life of the process.
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() any {
		return &Buffer{b: make([]byte, 0, 1024)}
	},
}

// Buffer accumulates tokenizer output.
//
// A Buffer is owned by exactly one masking call: AcquireBuffer hands out a
// cleared instance and ReleaseBuffer returns it. It must not be retained or
// shared after release.
type Buffer struct {
	b []byte
}

// AcquireBuffer returns an empty buffer from the pool.
func AcquireBuffer() *Buffer {
	buf := bufferPool.Get().(*Buffer)
	buf.Reset()
	return buf
}

// ReleaseBuffer returns buf to the pool. Nil is ignored.
func ReleaseBuffer(buf *Buffer) {
	if buf == nil || cap(buf.b) > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

// AppendByte appends one byte.
func (buf *Buffer) AppendByte(c byte) *Buffer {
	buf.b = append(buf.b, c)
	return buf
}

// AppendString appends s.
func (buf *Buffer) AppendString(s string) *Buffer {
	buf.b = append(buf.b, s...)
	return buf
}

// AppendRange appends s[start:end].
func (buf *Buffer) AppendRange(s string, start, end int) *Buffer {
	buf.b = append(buf.b, s[start:end]...)
	return buf
}

// Reset empties the buffer, keeping its capacity.
func (buf *Buffer) Reset() {
	buf.b = buf.b[:0]
}

// Len returns the number of accumulated bytes.
func (buf *Buffer) Len() int {
	return len(buf.b)
}

// String returns a copy of the contents. The buffer may be reused afterwards.
func (buf *Buffer) String() string {
	return string(buf.b)
}
