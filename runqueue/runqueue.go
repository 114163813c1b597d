/*
 * Copyright (c) 2019 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package runqueue

import (
	"runtime"
	"sync/atomic"

	"github.com/ortuman/c2sgate/log"
	"github.com/ortuman/c2sgate/runqueue/mpsc"
)

const (
	idle int32 = iota
	running
)

// RunQueue represents a lock-free operation queue.
// Operations pushed into the queue are executed sequentially and in order,
// never concurrently with each other.
type RunQueue struct {
	name         string
	queue        *mpsc.Queue
	messageCount int32
	state        int32
	stopped      int32
}

type funcMessage struct{ fn func() }
type stopMessage struct{ stopCb func() }

// New returns an initialized lock-free operation queue.
func New(name string) *RunQueue {
	return &RunQueue{
		name:  name,
		queue: mpsc.New(),
	}
}

// Name returns the queue name.
func (m *RunQueue) Name() string {
	return m.name
}

// Run pushes a new operation function into the queue.
// Operations pushed after the queue has been stopped are discarded.
func (m *RunQueue) Run(fn func()) {
	if atomic.LoadInt32(&m.stopped) == 1 {
		return
	}
	atomic.AddInt32(&m.messageCount, 1)
	m.queue.Push(&funcMessage{fn: fn})
	m.schedule()
}

// Stop signals the queue to stop running.
//
// Callback function represented by 'stopCb' is executed once every previously scheduled job has run,
// or immediately if there are none.
func (m *RunQueue) Stop(stopCb func()) {
	if atomic.CompareAndSwapInt32(&m.stopped, 0, 1) {
		if atomic.LoadInt32(&m.messageCount) > 0 {
			atomic.AddInt32(&m.messageCount, 1)
			m.queue.Push(&stopMessage{stopCb: stopCb})
			m.schedule()
			return
		}
	}
	if stopCb != nil {
		stopCb()
	}
}

// IsStopped returns whether or not the queue has been stopped.
func (m *RunQueue) IsStopped() bool {
	return atomic.LoadInt32(&m.stopped) == 1
}

func (m *RunQueue) schedule() {
	if atomic.CompareAndSwapInt32(&m.state, idle, running) {
		go m.process()
	}
}

func (m *RunQueue) process() {

process:
	if m.run() {
		return
	}
	atomic.StoreInt32(&m.state, idle)
	if atomic.LoadInt32(&m.messageCount) > 0 {
		// try setting the queue back to running
		if atomic.CompareAndSwapInt32(&m.state, idle, running) {
			goto process
		}
	}
}

// run drains the queue reporting whether a stop message was found.
func (m *RunQueue) run() (stopped bool) {
	for {
		switch msg := m.queue.Pop().(type) {
		case *funcMessage:
			m.exec(msg.fn)
			atomic.AddInt32(&m.messageCount, -1)
		case *stopMessage:
			if cb := msg.stopCb; cb != nil {
				cb()
			}
			return true
		default:
			return false
		}
	}
}

func (m *RunQueue) exec(fn func()) {
	defer func() {
		if err := recover(); err != nil {
			m.logStackTrace(err)
		}
	}()
	fn()
}

func (m *RunQueue) logStackTrace(err interface{}) {
	stackSlice := make([]byte, 4096)
	s := runtime.Stack(stackSlice, false)

	log.Errorf("runqueue '%s' panicked with error: %v\n%s", m.name, err, stackSlice[0:s])
}
