package services

import (
	"sync"
	"time"

	"github.com/isdelr/waitlist-be/internal/models"
)

// FallbackStore holds subscribers accepted while the database was unreachable.
// It lives for the lifetime of the process and is safe for concurrent use.
type FallbackStore struct {
	mu      sync.Mutex
	entries map[string]models.Subscriber
	order   []string
}

// NewFallbackStore creates an empty FallbackStore.
func NewFallbackStore() *FallbackStore {
	return &FallbackStore{entries: make(map[string]models.Subscriber)}
}

// Add stores email and reports whether it was not already present.
func (f *FallbackStore) Add(email string, at time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[email]; ok {
		return false
	}
	f.entries[email] = models.Subscriber{Email: email, CreatedAt: at}
	f.order = append(f.order, email)
	return true
}

// Get returns the held subscriber for email.
func (f *FallbackStore) Get(email string) (models.Subscriber, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sub, ok := f.entries[email]
	return sub, ok
}

// Pending returns a snapshot of the stored subscribers in insertion order.
func (f *FallbackStore) Pending() []models.Subscriber {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Subscriber, 0, len(f.order))
	for _, email := range f.order {
		out = append(out, f.entries[email])
	}
	return out
}

// Remove drops email from the store.
func (f *FallbackStore) Remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.entries[email]; !ok {
		return
	}
	delete(f.entries, email)
	for i, e := range f.order {
		if e == email {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of pending subscribers.
func (f *FallbackStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
