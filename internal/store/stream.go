package store

import (
	"github.com/yndnr/voltkv-go/internal/core/domain"
)

// getStream returns the stream at key, or nil when absent. Caller must
// hold s.mu.
func (s *Store) getStream(key string) (*domain.Stream, error) {
	v, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	st, ok := v.(*domain.Stream)
	if !ok {
		return nil, domain.ErrWrongType
	}
	return st, nil
}

// StreamAdd appends an entry to the stream at key, creating the stream
// when absent. The ID spec is resolved against the stream's last ID;
// rejected IDs leave the key unmodified (a stream created by this call
// is not kept on rejection).
func (s *Store) StreamAdd(key string, spec domain.IDSpec, fields []domain.FieldValue) (domain.StreamID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getStream(key)
	if err != nil {
		return domain.StreamID{}, err
	}
	created := false
	if st == nil {
		st = domain.NewStream()
		created = true
	}

	id, err := st.Append(spec, fields, s.clock())
	if err != nil {
		return domain.StreamID{}, err
	}
	if created {
		s.keys[key] = st
	}
	return id, nil
}

// StreamRange returns the entries with ID in [start, end] inclusive in
// ascending order, truncated to count when count > 0. A missing key
// yields an empty result.
func (s *Store) StreamRange(key string, start, end domain.StreamID, count int) ([]domain.StreamEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getStream(key)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	return st.Range(start, end, count), nil
}

// StreamLastID returns the last entry ID of the stream at key, or 0-0
// when the key is absent or the stream is empty.
func (s *Store) StreamLastID(key string) (domain.StreamID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.getStream(key)
	if err != nil {
		return domain.StreamID{}, err
	}
	if st == nil {
		return domain.StreamID{}, nil
	}
	return st.LastID(), nil
}
