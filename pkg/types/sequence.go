package types

// Sequence allocates monotonically increasing numeric identities.
// The zero value is ready to use and hands out 0 first.
type Sequence struct {
	next int
}

// Next returns the next identity and advances the sequence.
func (s *Sequence) Next() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the identity the next call to Next will hand out.
func (s *Sequence) Peek() int {
	return s.next
}

// Restore resets the sequence from a persisted counter. maxID is the highest
// identity currently in use, or -1 when the collection is empty; the sequence
// never resumes at or below it even if the stored counter is stale.
func (s *Sequence) Restore(stored, maxID int) {
	next := stored
	if maxID+1 > next {
		next = maxID + 1
	}
	if next < 0 {
		next = 0
	}
	s.next = next
}
