package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/planwg/planwg/internal/plan"
)

const sessionDirName = ".planwg"

// FileStore keeps one JSON document per channel under <root>/channels and
// a per-directory session file at <dir>/.planwg/session.json.
type FileStore struct {
	root string
}

// NewFileStore creates a file-backed store rooted at the given state
// directory (typically ~/.planwg).
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root}
}

func (s *FileStore) channelPath(name string) string {
	safe := filepath.Base(strings.ReplaceAll(name, string(os.PathSeparator), "_"))
	return filepath.Join(s.root, "channels", safe+".json")
}

func sessionPath(dir string) string {
	return filepath.Join(dir, sessionDirName, "session.json")
}

func (s *FileStore) LoadChannel(name string) (*plan.Channel, error) {
	data, err := os.ReadFile(s.channelPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read channel state: %w", err)
	}
	var ch plan.Channel
	if err := json.Unmarshal(data, &ch); err != nil {
		return nil, fmt.Errorf("decode channel state %s: %w", name, err)
	}
	if ch.Threads == nil {
		ch.Threads = map[string]*plan.Thread{}
	}
	return &ch, nil
}

func (s *FileStore) SaveChannel(ch *plan.Channel) error {
	path := s.channelPath(ch.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(ch, "", "  ")
	if err != nil {
		return fmt.Errorf("encode channel state %s: %w", ch.Name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write channel state: %w", err)
	}
	return nil
}

func (s *FileStore) ListChannels() ([]*plan.Channel, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, "channels"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list channel state: %w", err)
	}
	var out []*plan.Channel
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ch, err := s.LoadChannel(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil || ch == nil {
			// Unreadable records are skipped, not fatal for a listing.
			continue
		}
		out = append(out, ch)
	}
	return out, nil
}

func (s *FileStore) LoadSession(dir string) (*SessionLink, error) {
	data, err := os.ReadFile(sessionPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session link: %w", err)
	}
	var link SessionLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("decode session link: %w", err)
	}
	return &link, nil
}

func (s *FileStore) SaveSession(dir string, link SessionLink) error {
	path := sessionPath(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(link, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session link: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session link: %w", err)
	}
	return nil
}

func (s *FileStore) ClearSession(dir string) error {
	err := os.Remove(sessionPath(dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
