package story

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySequence = errors.New("story: sequence must contain at least one item")
	ErrOutOfRange    = errors.New("story: index out of range")
)

// Sequence is an ordered, fixed-length list of items. It is read-only
// for the whole lifetime of a playback session.
type Sequence struct {
	items []Item
}

// NewSequence validates every item and returns the sequence.
func NewSequence(items ...Item) (Sequence, error) {
	if len(items) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return Sequence{}, fmt.Errorf("item %d: %w", i, err)
		}
	}
	s := Sequence{items: make([]Item, len(items))}
	copy(s.items, items)
	return s, nil
}

// Len returns the number of items.
func (s Sequence) Len() int {
	return len(s.items)
}

// InRange reports whether i is a valid index.
func (s Sequence) InRange(i int) bool {
	return i >= 0 && i < len(s.items)
}

// At returns the item at index i. Panics when out of range, mirroring
// slice semantics; callers are expected to check InRange first.
func (s Sequence) At(i int) Item {
	return s.items[i]
}

// Items returns a copy of all items.
func (s Sequence) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}
