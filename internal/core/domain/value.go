package domain

// Kind identifies the stored type at a key. A key maps to at most one
// value; the kind determines which commands may act on it without a
// WRONGTYPE error.
type Kind int

// Stored value kinds.
const (
	KindNone Kind = iota
	KindString
	KindList
	KindStream
	KindSet
)

// String returns the kind name as reported by the TYPE command.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindStream:
		return "stream"
	case KindSet:
		return "set"
	default:
		return "none"
	}
}

// List is an ordered, mutable sequence of byte strings. The front is
// index 0; insertion order is preserved exactly across push and pop
// operations.
type List struct {
	elems [][]byte
}

// NewList creates an empty list.
func NewList() *List {
	return &List{}
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.elems)
}

// PushBack appends vals in argument order.
func (l *List) PushBack(vals ...[]byte) {
	l.elems = append(l.elems, vals...)
}

// PushFront prepends each val in argument order, so the last argument
// ends up at the front of the list.
func (l *List) PushFront(vals ...[]byte) {
	for _, v := range vals {
		l.elems = append([][]byte{v}, l.elems...)
	}
}

// PopFront removes and returns up to n elements from the front. It
// returns fewer when the list is shorter.
func (l *List) PopFront(n int) [][]byte {
	if n <= 0 || len(l.elems) == 0 {
		return nil
	}
	if n > len(l.elems) {
		n = len(l.elems)
	}
	popped := l.elems[:n]
	l.elems = l.elems[n:]
	return popped
}

// Range returns the inclusive sub-range [start, stop] using Redis-style
// indexing: negative indices count from the end (-1 is the last
// element), out-of-range bounds clamp to the valid span, and
// start > effective stop yields nil.
func (l *List) Range(start, stop int) [][]byte {
	n := len(l.elems)
	if n == 0 {
		return nil
	}
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || start >= n {
		return nil
	}
	return l.elems[start : stop+1]
}

// Set is an insertion-ordered set of strings. Membership checks are
// O(1); iteration yields members in first-insertion order.
type Set struct {
	order   []string
	members map[string]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{members: make(map[string]struct{})}
}

// Add inserts member if absent and reports whether it was inserted.
func (s *Set) Add(member string) bool {
	if _, ok := s.members[member]; ok {
		return false
	}
	s.members[member] = struct{}{}
	s.order = append(s.order, member)
	return true
}

// Remove deletes member if present and reports whether it was removed.
func (s *Set) Remove(member string) bool {
	if _, ok := s.members[member]; !ok {
		return false
	}
	delete(s.members, member)
	for i, m := range s.order {
		if m == member {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Has reports membership.
func (s *Set) Has(member string) bool {
	_, ok := s.members[member]
	return ok
}

// Len returns the cardinality.
func (s *Set) Len() int {
	return len(s.order)
}

// Members returns the members in insertion order. The returned slice is
// a copy.
func (s *Set) Members() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Diff returns the members of s not present in any of the others,
// preserving s's insertion order.
func (s *Set) Diff(others ...*Set) *Set {
	out := NewSet()
	for _, m := range s.order {
		excluded := false
		for _, o := range others {
			if o != nil && o.Has(m) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.Add(m)
		}
	}
	return out
}

// Inter returns the members present in s and in every other set,
// preserving s's insertion order.
func (s *Set) Inter(others ...*Set) *Set {
	out := NewSet()
	for _, m := range s.order {
		inAll := true
		for _, o := range others {
			if o == nil || !o.Has(m) {
				inAll = false
				break
			}
		}
		if inAll {
			out.Add(m)
		}
	}
	return out
}

// Union returns the members present in s or any other set. Order is
// s's insertion order followed by first appearance in the others.
func (s *Set) Union(others ...*Set) *Set {
	out := NewSet()
	for _, m := range s.order {
		out.Add(m)
	}
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, m := range o.order {
			out.Add(m)
		}
	}
	return out
}
