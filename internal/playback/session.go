package playback

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Session tracks one open player: what is being watched and which provider
// in the list is active. It lives only in memory and dies with Close.
type Session struct {
	ID          string
	MediaID     int
	SecondaryID string
	Episode     int
	Title       string

	mu        sync.Mutex
	providers []Provider
	active    int
}

// Cycle advances to the next provider, wrapping past the end of the list,
// and returns the new active index. It is the only index transition.
func (s *Session) Cycle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = (s.active + 1) % len(s.providers)
	return s.active
}

// Current returns the active provider and the URL it resolves for this
// session.
func (s *Session) Current() (Provider, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.providers[s.active]
	return p, p.Resolve(s.MediaID, s.SecondaryID, s.Episode, s.Title)
}

// ActiveIndex returns the current 0-based provider index.
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Manager holds open sessions keyed by a generated id.
type Manager struct {
	mu        sync.Mutex
	providers []Provider
	sessions  map[string]*Session
}

func NewManager(providers []Provider) (*Manager, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("playback: provider list must not be empty")
	}
	return &Manager{
		providers: providers,
		sessions:  make(map[string]*Session),
	}, nil
}

// Providers returns the fixed ordered provider list.
func (m *Manager) Providers() []Provider {
	return m.providers
}

// Open creates a session starting at the first-listed provider.
func (m *Manager) Open(mediaID int, secondaryID string, episode int, title string) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		MediaID:     mediaID,
		SecondaryID: secondaryID,
		Episode:     episode,
		Title:       title,
		providers:   m.providers,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with id, nil when unknown.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// Close discards the session; all its state is gone.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
