package state

// Mutate applies fn to the current snapshot and stores the result. Submit
// callbacks receive one bound to the form's Store.
type Mutate func(fn func(State) State)

// Listener observes snapshot transitions.
type Listener func(previous, current State)

// Store owns the current snapshot. It is not safe for concurrent use: events
// are expected to arrive sequentially and each produces exactly one transition.
type Store struct {
	current   State
	version   uint64
	listeners []Listener
}

// NewStore creates a store seeded with the provided snapshot.
func NewStore(initial State) *Store {
	if initial.values == nil {
		initial = Empty()
	}
	return &Store{current: initial}
}

// Current returns the latest snapshot.
func (s *Store) Current() State {
	if s == nil {
		return Empty()
	}
	return s.current
}

// Version increments once per applied transition.
func (s *Store) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Update applies fn to the current snapshot. A nil fn is ignored.
func (s *Store) Update(fn func(State) State) {
	if s == nil || fn == nil {
		return
	}
	s.Replace(fn(s.current))
}

// Replace swaps the current snapshot and notifies listeners.
func (s *Store) Replace(next State) {
	if s == nil {
		return
	}
	if next.values == nil {
		next = Empty()
	}
	previous := s.current
	s.current = next
	s.version++
	for _, listener := range s.listeners {
		listener(previous, next)
	}
}

// Mutator returns a Mutate bound to this store.
func (s *Store) Mutator() Mutate {
	return s.Update
}

// Subscribe registers a listener invoked after every transition.
func (s *Store) Subscribe(listener Listener) {
	if s == nil || listener == nil {
		return
	}
	s.listeners = append(s.listeners, listener)
}
