package cart

import "sync"

// Store keeps one cart per session and serializes the snapshot swap: an
// update reads the most recent cart, applies a pure transition, and writes
// the result back under the lock. Carts live in process memory only.
type Store struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]Cart)}
}

func (s *Store) Get(sessionID string) Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.carts[sessionID].clone()
}

// Update applies fn to the session's current cart. When fn reports true the
// returned cart replaces the stored one; otherwise the stored cart stays as
// it was. Either way the resulting cart is returned for rendering.
func (s *Store) Update(sessionID string, fn func(Cart) (Cart, bool)) (Cart, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := fn(s.carts[sessionID].clone())
	if ok {
		s.carts[sessionID] = next
	}
	return next.clone(), ok
}

func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
