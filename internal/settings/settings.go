package settings

import "sync"

// Preferences are the display settings previously read from ambient
// globals; they now live in an explicit store with subscriptions.
type Preferences struct {
	Currency string
	Language string
}

// Change describes one preference update delivered to subscribers.
type Change struct {
	Scope string // user id, or "" for the site-wide default
	Prefs Preferences
}

// Store is a pub-sub preferences store. Set updates the scoped
// preferences and notifies every subscriber; slow subscribers drop
// updates rather than block the writer.
type Store struct {
	mu       sync.RWMutex
	defaults Preferences
	scoped   map[string]Preferences
	subs     map[int]chan Change
	nextSub  int
}

func NewStore(defaults Preferences) *Store {
	return &Store{
		defaults: defaults,
		scoped:   make(map[string]Preferences),
		subs:     make(map[int]chan Change),
	}
}

// Get returns the preferences for a scope, falling back to defaults.
func (s *Store) Get(scope string) Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.scoped[scope]; ok {
		return p
	}
	return s.defaults
}

// Set stores the preferences for a scope and notifies subscribers.
func (s *Store) Set(scope string, prefs Preferences) {
	s.mu.Lock()
	if scope == "" {
		s.defaults = prefs
	} else {
		s.scoped[scope] = prefs
	}
	channels := make([]chan Change, 0, len(s.subs))
	for _, ch := range s.subs {
		channels = append(channels, ch)
	}
	s.mu.Unlock()

	change := Change{Scope: scope, Prefs: prefs}
	for _, ch := range channels {
		select {
		case ch <- change:
		default: // subscriber is not keeping up, drop
		}
	}
}

// Subscribe returns a channel of preference changes and a cancel func.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 16)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}
