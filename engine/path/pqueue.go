package path

import (
	"container/heap"
)

// PqItem is something we manage in a priority queue.
type PqItem[T any] struct {
	value    T       // The value of the item; arbitrary.
	priority float64 // Lower values are popped first.
	seq      uint64  // Insertion order, breaks priority ties.
	index    int     // The index of the item in the heap, maintained by the heap.Interface methods.
}

func (item *PqItem[T]) GetPriority() float64 {
	return item.priority
}

func (item *PqItem[T]) GetValue() T {
	return item.value
}

// itemHeap implements heap.Interface.
type itemHeap[T any] []*PqItem[T]

func (h itemHeap[T]) Len() int { return len(h) }

func (h itemHeap[T]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *itemHeap[T]) Push(x any) {
	item := x.(*PqItem[T])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *itemHeap[T]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*h = old[0 : n-1]
	return item
}

// PriorityQueue pops the lowest priority first. Equal priorities come out in
// insertion order, so the pop order is deterministic.
type PriorityQueue[T any] struct {
	items   itemHeap[T]
	nextSeq uint64
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	return &PriorityQueue[T]{}
}

func (pq *PriorityQueue[T]) Push(value T, priority float64) {
	heap.Push(&pq.items, &PqItem[T]{value: value, priority: priority, seq: pq.nextSeq})
	pq.nextSeq++
}

// Pop removes the item with the lowest priority. ok is false on an empty queue.
func (pq *PriorityQueue[T]) Pop() (value T, priority float64, ok bool) {
	if pq.items.Len() == 0 {
		return value, 0, false
	}
	item := heap.Pop(&pq.items).(*PqItem[T])
	return item.value, item.priority, true
}

func (pq *PriorityQueue[T]) Top() *PqItem[T] {
	if pq.items.Len() == 0 {
		return nil
	}
	return pq.items[0]
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.items.Len()
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	return pq.Len() == 0
}
