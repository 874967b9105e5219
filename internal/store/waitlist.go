package store

// Delivery is the payload handed to a woken list waiter: the key it
// blocked on and the element popped for it.
type Delivery struct {
	Key   string
	Value []byte
}

// Waiter is a registered blocked consumer of a list key. A waiter is
// resolved exactly once: either a push delivers an element on C, or a
// cancellation (timeout, disconnect) removes it without a delivery.
type Waiter struct {
	key  string
	ch   chan Delivery
	done bool
}

// C returns the delivery channel. It is buffered; a delivery is sent at
// most once and never blocks the pusher.
func (w *Waiter) C() <-chan Delivery {
	return w.ch
}

// waitlist holds the per-key FIFO queues of blocked waiters. All
// methods must be called with the owning Store's mutex held; the
// waitlist itself carries no lock.
type waitlist struct {
	queues map[string][]*Waiter
}

func newWaitlist() *waitlist {
	return &waitlist{queues: make(map[string][]*Waiter)}
}

// add registers a new waiter at the back of key's queue.
func (wl *waitlist) add(key string) *Waiter {
	w := &Waiter{
		key: key,
		ch:  make(chan Delivery, 1),
	}
	wl.queues[key] = append(wl.queues[key], w)
	return w
}

// remove unregisters w if it has not been delivered to. It reports
// whether the caller won the race: false means a pusher already
// resolved the waiter and a delivery is sitting in its channel.
func (wl *waitlist) remove(w *Waiter) bool {
	if w.done {
		return false
	}
	w.done = true

	q := wl.queues[w.key]
	for i, cand := range q {
		if cand == w {
			q = append(q[:i], q[i+1:]...)
			break
		}
	}
	if len(q) == 0 {
		delete(wl.queues, w.key)
	} else {
		wl.queues[w.key] = q
	}
	return true
}

// pop detaches the front waiter of key's queue, or returns nil when no
// waiter is registered.
func (wl *waitlist) pop(key string) *Waiter {
	q := wl.queues[key]
	if len(q) == 0 {
		return nil
	}
	w := q[0]
	if len(q) == 1 {
		delete(wl.queues, key)
	} else {
		wl.queues[key] = q[1:]
	}
	return w
}

// deliver resolves w with an element. Must only be called on a waiter
// freshly detached by pop.
func (wl *waitlist) deliver(w *Waiter, d Delivery) {
	w.done = true
	w.ch <- d
}

// pending returns the waiter count for key.
func (wl *waitlist) pending(key string) int {
	return len(wl.queues[key])
}

// total returns the waiter count across all keys.
func (wl *waitlist) total() int {
	n := 0
	for _, q := range wl.queues {
		n += len(q)
	}
	return n
}
