// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"container/heap"
)

// mergeQueue is a min-heap of arena indices.  Nodes are ordered by frequency, then by byte value; an
// internal node carries the larger byte value of its two children, so the order is total and the resulting
// code table is fully determined by the input.
type mergeQueue struct {
	arena []node
	items []int
}

func (q *mergeQueue) Len() int { return len(q.items) }

func (q *mergeQueue) Less(i, j int) bool {
	a, b := &q.arena[q.items[i]], &q.arena[q.items[j]]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	return a.sym < b.sym
}

func (q *mergeQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *mergeQueue) Push(x interface{}) {
	q.items = append(q.items, x.(int))
}

func (q *mergeQueue) Pop() interface{} {
	old := q.items
	n := len(old)
	x := old[n-1]
	q.items = old[:n-1]
	return x
}

func (q *mergeQueue) push(index int) { heap.Push(q, index) }
func (q *mergeQueue) pop() int       { return heap.Pop(q).(int) }
