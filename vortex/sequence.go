package vortex

// Sequence hands out global vortex ids. Each run owns its own sequence.
type Sequence struct {
	next int
}

// NewSequence starts a sequence at first
func NewSequence(first int) *Sequence {
	return &Sequence{next: first}
}

// Next returns a fresh id
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the id that Next would hand out
func (s *Sequence) Peek() int {
	return s.next
}
