package framework

import (
	"sort"
	"sync"
)

// SortingQueue receives numbered items in any order and delivers them on C in ascending
// order of their counters, starting from 1. An item whose predecessor has not arrived yet
// is held back until the gap is filled.
//
// C must be buffered generously enough that Accept never blocks; the harness sizes it to
// the number of items it expects.
type SortingQueue[T any] struct {
	C           chan T
	lastCounter int
	deferred    []deferredItem[T]
	lock        sync.Mutex
	closeOnce   sync.Once
}

type deferredItem[T any] struct {
	counter int
	item    T
}

func NewSortingQueue[T any](channelSize int) *SortingQueue[T] {
	return &SortingQueue[T]{C: make(chan T, channelSize)}
}

func (q *SortingQueue[T]) Accept(counter int, item T) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if counter > q.lastCounter+1 {
		q.deferred = append(q.deferred, deferredItem[T]{counter: counter, item: item})
		sort.Slice(q.deferred, func(i, j int) bool { return q.deferred[i].counter < q.deferred[j].counter })
		return
	}
	q.lastCounter = counter
	q.C <- item
	for len(q.deferred) > 0 {
		next := q.deferred[0]
		if next.counter != q.lastCounter+1 {
			break
		}
		q.deferred = q.deferred[1:]
		q.lastCounter++
		q.C <- next.item
	}
}

// Deferred returns the items that are still waiting for an earlier item.
func (q *SortingQueue[T]) Deferred() []T {
	q.lock.Lock()
	ret := make([]T, 0, len(q.deferred))
	for _, d := range q.deferred {
		ret = append(ret, d.item)
	}
	q.lock.Unlock()
	return ret
}

// Close closes C. Items still deferred at that point are never delivered.
func (q *SortingQueue[T]) Close() {
	q.closeOnce.Do(func() {
		q.lock.Lock()
		close(q.C)
		q.lock.Unlock()
	})
}
