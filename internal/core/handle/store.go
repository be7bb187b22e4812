package handle

import "sort"

// Store is an arena of values addressed by ID. Ids come from the store's own
// pool so a released slot can never be read through an old id.
type Store[T any] struct {
	pool *Pool
	data map[ID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		pool: NewPool(),
		data: make(map[ID]*T, 16),
	}
}

// Add stores v under a fresh id.
func (s *Store[T]) Add(v *T) ID {
	id := s.pool.Create()
	s.data[id] = v
	return id
}

func (s *Store[T]) Get(id ID) (*T, bool) {
	v, ok := s.data[id]
	return v, ok
}

func (s *Store[T]) Remove(id ID) (*T, bool) {
	v, ok := s.data[id]
	if !ok {
		return nil, false
	}
	delete(s.data, id)
	s.pool.Release(id)
	return v, true
}

func (s *Store[T]) Has(id ID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits values in ascending id order so callers get a stable order.
func (s *Store[T]) Each(fn func(ID, *T)) {
	ids := make([]ID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(id, s.data[id])
	}
}
