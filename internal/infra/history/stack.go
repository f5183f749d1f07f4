package history

import (
	"sync"

	"github.com/yanqian/ketoslim-funnel/internal/domain/funnel"
)

// Stack models a browser history for one visitor: an ordered list of entries
// with a cursor. Push drops any forward entries, Back/Forward move the cursor
// and notify subscribers the way a popstate event would.
type Stack struct {
	mu        sync.Mutex
	entries   []funnel.NavigationEntry
	index     int
	listeners map[int]func(funnel.NavigationEntry)
	nextID    int
}

// NewStack returns an empty history.
func NewStack() *Stack {
	return &Stack{
		index:     -1,
		listeners: make(map[int]func(funnel.NavigationEntry)),
	}
}

// Push appends entry after the cursor and makes it current.
func (s *Stack) Push(entry funnel.NavigationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries[:s.index+1], entry)
	s.index = len(s.entries) - 1
}

// Replace overwrites the current entry, or pushes when the history is empty.
func (s *Stack) Replace(entry funnel.NavigationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		s.entries = append(s.entries, entry)
		s.index = 0
		return
	}
	s.entries[s.index] = entry
}

// Current returns the entry under the cursor.
func (s *Stack) Current() (funnel.NavigationEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return funnel.NavigationEntry{}, false
	}
	return s.entries[s.index], true
}

// Subscribe registers fn for native navigation notifications.
func (s *Stack) Subscribe(fn func(funnel.NavigationEntry)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Back moves one entry back. It reports false at the start of the history.
func (s *Stack) Back() bool {
	return s.Go(-1)
}

// Forward moves one entry forward. It reports false at the end of the history.
func (s *Stack) Forward() bool {
	return s.Go(1)
}

// Go moves the cursor by delta and notifies subscribers with the new entry.
// Out-of-range moves are ignored, as window.history.go ignores them.
func (s *Stack) Go(delta int) bool {
	s.mu.Lock()
	target := s.index + delta
	if delta == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	s.index = target
	entry := s.entries[target]
	listeners := make([]func(funnel.NavigationEntry), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
	return true
}

// Len returns the number of entries.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the cursor position, -1 when empty.
func (s *Stack) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Listeners returns the number of active subscriptions.
func (s *Stack) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Entries returns a copy of the history.
func (s *Stack) Entries() []funnel.NavigationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]funnel.NavigationEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

var _ funnel.HistoryPort = (*Stack)(nil)
