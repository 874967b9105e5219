package store

import (
	"github.com/yndnr/voltkv-go/internal/core/domain"
)

// getSet returns the set at key, or nil when absent. Caller must hold
// s.mu.
func (s *Store) getSet(key string) (*domain.Set, error) {
	v, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	set, ok := v.(*domain.Set)
	if !ok {
		return nil, domain.ErrWrongType
	}
	return set, nil
}

// SetAdd adds members to the set at key, creating it when absent, and
// returns the count of members actually inserted.
func (s *Store) SetAdd(key string, members ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return 0, err
	}
	if set == nil {
		set = domain.NewSet()
		s.keys[key] = set
	}

	added := 0
	for _, m := range members {
		if set.Add(m) {
			added++
		}
	}
	return added, nil
}

// SetRemove removes members from the set at key and returns the count
// actually removed. The key is deleted when the set empties.
func (s *Store) SetRemove(key string, members ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return 0, err
	}
	if set == nil {
		return 0, nil
	}

	removed := 0
	for _, m := range members {
		if set.Remove(m) {
			removed++
		}
	}
	if set.Len() == 0 {
		delete(s.keys, key)
	}
	return removed, nil
}

// SetCard returns the cardinality of the set at key, or 0 when absent.
func (s *Store) SetCard(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return 0, err
	}
	if set == nil {
		return 0, nil
	}
	return set.Len(), nil
}

// SetMembers returns the members of the set at key in insertion order.
func (s *Store) SetMembers(key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, nil
	}
	return set.Members(), nil
}

// SetIsMember reports membership of member in the set at key.
func (s *Store) SetIsMember(key, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.getSet(key)
	if err != nil {
		return false, err
	}
	if set == nil {
		return false, nil
	}
	return set.Has(member), nil
}

// SetMove atomically moves member from src to dst. It reports whether
// the member was moved; moving a member absent from src is a no-op.
func (s *Store) SetMove(src, dst, member string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	srcSet, err := s.getSet(src)
	if err != nil {
		return false, err
	}
	dstSet, err := s.getSet(dst)
	if err != nil {
		return false, err
	}
	if srcSet == nil || !srcSet.Has(member) {
		return false, nil
	}

	srcSet.Remove(member)
	if srcSet.Len() == 0 {
		delete(s.keys, src)
	}
	if dstSet == nil {
		dstSet = domain.NewSet()
		s.keys[dst] = dstSet
	}
	dstSet.Add(member)
	return true, nil
}

// setOp identifies a set algebra operation.
type setOp int

const (
	opDiff setOp = iota
	opInter
	opUnion
)

// combine evaluates the operation over the sets at keys, treating
// missing keys as empty sets. Caller must hold s.mu.
func (s *Store) combine(op setOp, keys []string) (*domain.Set, error) {
	sets := make([]*domain.Set, len(keys))
	for i, key := range keys {
		set, err := s.getSet(key)
		if err != nil {
			return nil, err
		}
		if set == nil {
			set = domain.NewSet()
		}
		sets[i] = set
	}

	first, rest := sets[0], sets[1:]
	switch op {
	case opDiff:
		return first.Diff(rest...), nil
	case opInter:
		return first.Inter(rest...), nil
	default:
		return first.Union(rest...), nil
	}
}

// SetDiff returns the members of the first set not present in the
// successive sets, in the first set's insertion order.
func (s *Store) SetDiff(keys ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.combine(opDiff, keys)
	if err != nil {
		return nil, err
	}
	return set.Members(), nil
}

// SetInter returns the members present in every set.
func (s *Store) SetInter(keys ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.combine(opInter, keys)
	if err != nil {
		return nil, err
	}
	return set.Members(), nil
}

// SetUnion returns the members present in any set.
func (s *Store) SetUnion(keys ...string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, err := s.combine(opUnion, keys)
	if err != nil {
		return nil, err
	}
	return set.Members(), nil
}

// SetOpStore evaluates op over keys and stores the result at dst,
// overwriting whatever was there. An empty result deletes dst. Returns
// the result cardinality. The read and the overwrite are one atomic
// step.
func (s *Store) SetOpStore(op SetStoreOp, dst string, keys ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := s.combine(setOp(op), keys)
	if err != nil {
		return 0, err
	}
	if set.Len() == 0 {
		delete(s.keys, dst)
		return 0, nil
	}
	s.keys[dst] = set
	return set.Len(), nil
}

// SetStoreOp selects the operation of SetOpStore.
type SetStoreOp int

// Operations accepted by SetOpStore.
const (
	DiffStore  = SetStoreOp(opDiff)
	InterStore = SetStoreOp(opInter)
	UnionStore = SetStoreOp(opUnion)
)
