package registry

import "sort"

// Slot is the stable handle of one record in a Store.
//
// The slot for an identifier is created once and reused for every later
// registration or update of that identifier; only its value changes.
type Slot struct {
	id    string
	value Record
}

// ID returns the identifier the slot is addressed by.
func (s *Slot) ID() string { return s.id }

// Value returns the record currently held by the slot.
func (s *Slot) Value() Record { return s.value }

// Store maps identifiers to slots. It has no removal operation.
//
// Store is not safe for concurrent use; the Engine guards it.
type Store struct {
	slots map[string]*Slot
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{slots: make(map[string]*Slot)}
}

// Upsert creates the slot for id or replaces the value held by the existing one.
func (s *Store) Upsert(id string, value Record) *Slot {
	if slot, ok := s.slots[id]; ok {
		slot.value = value
		return slot
	}
	slot := &Slot{id: id, value: value}
	s.slots[id] = slot
	return slot
}

// Find returns the slot for id.
func (s *Store) Find(id string) (*Slot, bool) {
	slot, ok := s.slots[id]
	return slot, ok
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.slots) }

// IDs returns every identifier, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CountByKind returns the number of records per kind name.
func (s *Store) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, slot := range s.slots {
		counts[slot.value.RecordKind()]++
	}
	return counts
}
