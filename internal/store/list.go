package store

import (
	"github.com/yndnr/voltkv-go/internal/core/domain"
)

// getList returns the list at key, or nil when absent. WRONGTYPE when
// the key holds a different kind. Caller must hold s.mu.
func (s *Store) getList(key string) (*domain.List, error) {
	v, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	l, ok := v.(*domain.List)
	if !ok {
		return nil, domain.ErrWrongType
	}
	return l, nil
}

// push implements RPUSH/LPUSH. It creates the list if absent, applies
// the push, records the resulting length, and then hands elements to
// blocked waiters front-to-front until either the elements or the
// waiters run out. Elements consumed this way never become visible to
// other commands.
func (s *Store) push(key string, front bool, vals [][]byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getList(key)
	if err != nil {
		return 0, err
	}
	if l == nil {
		l = domain.NewList()
		s.keys[key] = l
	}

	if front {
		l.PushFront(vals...)
	} else {
		l.PushBack(vals...)
	}
	length := l.Len()

	for l.Len() > 0 {
		w := s.waiters.pop(key)
		if w == nil {
			break
		}
		popped := l.PopFront(1)
		s.waiters.deliver(w, Delivery{Key: key, Value: popped[0]})
	}
	if l.Len() == 0 {
		delete(s.keys, key)
	}

	return length, nil
}

// PushBack appends vals to the list at key (RPUSH) and returns the list
// length immediately after the push.
func (s *Store) PushBack(key string, vals ...[]byte) (int, error) {
	return s.push(key, false, vals)
}

// PushFront prepends vals in argument order to the list at key (LPUSH)
// and returns the list length immediately after the push.
func (s *Store) PushFront(key string, vals ...[]byte) (int, error) {
	return s.push(key, true, vals)
}

// ListLen returns the list length, or 0 when the key is absent.
func (s *Store) ListLen(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getList(key)
	if err != nil {
		return 0, err
	}
	if l == nil {
		return 0, nil
	}
	return l.Len(), nil
}

// ListRange returns the inclusive [start, stop] sub-range with
// Redis-style index handling. A missing key yields an empty result.
func (s *Store) ListRange(key string, start, stop int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getList(key)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}
	return l.Range(start, stop), nil
}

// PopFront removes and returns up to count front elements. The key is
// deleted when the list empties. A missing key yields nil.
func (s *Store) PopFront(key string, count int) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getList(key)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, nil
	}

	popped := l.PopFront(count)
	if l.Len() == 0 {
		delete(s.keys, key)
	}
	return popped, nil
}

// PopFrontOrWait is the entry point of the blocking pop. When the list
// at key has an element it is popped and returned with a nil waiter.
// Otherwise a waiter is registered at the back of key's FIFO queue and
// returned; the caller must then either receive from Waiter.C or call
// CancelWait.
func (s *Store) PopFrontOrWait(key string) ([]byte, *Waiter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.getList(key)
	if err != nil {
		return nil, nil, err
	}
	if l != nil && l.Len() > 0 {
		popped := l.PopFront(1)
		if l.Len() == 0 {
			delete(s.keys, key)
		}
		return popped[0], nil, nil
	}

	return nil, s.waiters.add(key), nil
}

// CancelWait removes w from its queue. It reports whether the
// cancellation won: false means an element was already delivered and is
// waiting on w.C, and the caller must consume it instead. At most one
// of the two outcomes ever reaches the caller.
func (s *Store) CancelWait(w *Waiter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiters.remove(w)
}
