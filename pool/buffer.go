/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package pool

import (
	"bytes"
	"sync"
)

// defaultMaxRetainedSize bounds the capacity of buffers kept in a pool.
const defaultMaxRetainedSize = 64 * 1024

// BufferPool represents a buffer pool container.
type BufferPool struct {
	p               sync.Pool
	maxRetainedSize int
}

// NewBufferPool returns a new buffer pool instance.
func NewBufferPool() *BufferPool {
	return NewBufferPoolSize(defaultMaxRetainedSize)
}

// NewBufferPoolSize returns a new buffer pool instance that drops
// returned buffers whose capacity exceeds maxRetainedSize.
func NewBufferPoolSize(maxRetainedSize int) *BufferPool {
	return &BufferPool{
		p:               sync.Pool{New: func() interface{} { return new(bytes.Buffer) }},
		maxRetainedSize: maxRetainedSize,
	}
}

// Get returns a buffer instance from the pool.
func (bp *BufferPool) Get() *bytes.Buffer {
	return bp.p.Get().(*bytes.Buffer)
}

// Put returns a buffer instance to the pool.
// Oversized buffers are left to the garbage collector.
func (bp *BufferPool) Put(buf *bytes.Buffer) {
	if bp.maxRetainedSize > 0 && buf.Cap() > bp.maxRetainedSize {
		return
	}
	buf.Reset()
	bp.p.Put(buf)
}
