package crmservice

import (
	"sync"
	"time"

	"bookinghub/internal/domain"
)

// defaultCapacity bounds the in-memory store. When full, the oldest record is
// evicted on insert.
const defaultCapacity = 1000

// Record is a received booking notification with its store metadata.
type Record struct {
	ID         int64     `json:"id"`
	ReceivedAt time.Time `json:"received_at"`
	domain.BookingNotification
}

// Store is a bounded, mutex-guarded in-memory notification log. IDs are
// sequential and never reused, so a deleted ID stays gone.
type Store struct {
	mu       sync.Mutex
	nextID   int64
	capacity int
	records  []Record
}

func NewStore() *Store {
	return &Store{nextID: 1, capacity: defaultCapacity}
}

// Add appends a notification and returns the stored record. The oldest record
// is evicted when the store is at capacity.
func (s *Store) Add(n *domain.BookingNotification) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := Record{
		ID:                  s.nextID,
		ReceivedAt:          time.Now().UTC(),
		BookingNotification: *n,
	}
	s.nextID++
	if len(s.records) >= s.capacity {
		s.records = s.records[1:]
	}
	s.records = append(s.records, rec)
	return rec
}

// List returns all records, oldest first.
func (s *Store) List() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Delete removes the record with the given ID. It reports whether a record
// was removed.
func (s *Store) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the store. The ID sequence is not reset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
