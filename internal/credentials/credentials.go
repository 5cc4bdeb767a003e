package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/clubhouse/internal/club"
	"gopkg.in/yaml.v3"
)

// Session is what a successful login leaves behind.
type Session struct {
	Token    string    `yaml:"token"`
	Scheme   string    `yaml:"scheme,omitempty"`
	Role     club.Role `yaml:"role"`
	Username string    `yaml:"username"`
	UserID   int64     `yaml:"user_id"`
	PublicID string    `yaml:"public_id,omitempty"`
}

// Store persists a session between runs.
type Store interface {
	// Load returns nil when nothing is stored.
	Load() (*Session, error)
	Save(s Session) error
	Clear() error
}

// Context is the explicit owner of the credential lifecycle. The API client
// reads the token from it; login and logout are the only writers.
type Context struct {
	mu      sync.RWMutex
	store   Store
	current *Session
}

// New creates a Context and restores any session the store holds.
func New(store Store) (*Context, error) {
	s, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &Context{store: store, current: s}, nil
}

// Begin persists s and makes it the active session.
func (c *Context) Begin(s Session) error {
	if s.Token == "" {
		return errors.New("session has no token")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	c.current = &s
	log.Debug("Session started", "username", s.Username, "role", s.Role)
	return nil
}

// End forgets the active session. The in-memory session is cleared even when
// the store fails.
func (c *Context) End() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Current returns the active session, if any.
func (c *Context) Current() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

// Credential returns the Authorization scheme and token of the active session.
func (c *Context) Credential() (scheme, token string, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil || c.current.Token == "" {
		return "", "", false
	}
	return c.current.Scheme, c.current.Token, true
}

// FileStore keeps the session in a YAML file readable only by the owner.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Path, err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

func (f FileStore) Save(s Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0o600)
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// MemoryStore keeps the session in memory only.
type MemoryStore struct {
	mu sync.Mutex
	s  *Session
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	s := *m.s
	return &s, nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
