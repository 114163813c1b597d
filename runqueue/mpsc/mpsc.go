/*
 * Copyright (c) 2019 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

// Package mpsc implements an unbounded multi-producer single-consumer queue.
package mpsc

import (
	"sync/atomic"
)

type node struct {
	next atomic.Pointer[node]
	val  interface{}
}

// Queue is a lock-free unbounded queue.
// Push can be called concurrently; Pop and Empty must only be called by a single consumer.
type Queue struct {
	head atomic.Pointer[node]
	tail *node
}

// New returns an empty queue.
func New() *Queue {
	stub := &node{}
	q := &Queue{tail: stub}
	q.head.Store(stub)
	return q
}

// Push adds x to the back of the queue.
func (q *Queue) Push(x interface{}) {
	n := &node{val: x}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// Pop removes the item from the front of the queue or returns nil if the queue is empty.
func (q *Queue) Pop() interface{} {
	next := q.tail.next.Load()
	if next == nil {
		return nil
	}
	q.tail = next
	v := next.val
	next.val = nil
	return v
}

// Empty returns true if the queue is empty.
func (q *Queue) Empty() bool {
	return q.tail.next.Load() == nil
}
