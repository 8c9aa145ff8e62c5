package store

import (
	"encoding/json"
	"sync"

	"github.com/planwg/planwg/internal/plan"
)

// MemStore is an in-memory Store for tests. Records are deep-copied
// through JSON on load and save so callers see the same isolation as the
// file-backed store.
type MemStore struct {
	mu       sync.Mutex
	channels map[string][]byte
	sessions map[string]SessionLink
}

func NewMemStore() *MemStore {
	return &MemStore{
		channels: map[string][]byte{},
		sessions: map[string]SessionLink{},
	}
}

func (s *MemStore) LoadChannel(name string) (*plan.Channel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.channels[name]
	if !ok {
		return nil, nil
	}
	var ch plan.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, err
	}
	if ch.Threads == nil {
		ch.Threads = map[string]*plan.Thread{}
	}
	return &ch, nil
}

func (s *MemStore) SaveChannel(ch *plan.Channel) error {
	data, err := json.Marshal(ch)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[ch.Name] = data
	return nil
}

func (s *MemStore) ListChannels() ([]*plan.Channel, error) {
	s.mu.Lock()
	names := make([]string, 0, len(s.channels))
	for name := range s.channels {
		names = append(names, name)
	}
	s.mu.Unlock()

	var out []*plan.Channel
	for _, name := range names {
		ch, err := s.LoadChannel(name)
		if err != nil {
			return nil, err
		}
		if ch != nil {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *MemStore) LoadSession(dir string) (*SessionLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	link, ok := s.sessions[dir]
	if !ok {
		return nil, nil
	}
	cp := link
	return &cp, nil
}

func (s *MemStore) SaveSession(dir string, link SessionLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[dir] = link
	return nil
}

func (s *MemStore) ClearSession(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, dir)
	return nil
}
