// internal/session/tokenstore.go
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore is the client-persisted key/value storage for the
// credential token. It doubles as the gateway's TokenSource, so a 401
// response clears the persisted token through the same object.
type TokenStore interface {
	Token() (string, bool)
	Save(token string) error
	Clear()
}

// FileTokenStore persists the token as a mode 0600 JSON file. The token
// is the only state this client keeps across restarts.
type FileTokenStore struct {
	path string

	mu     sync.Mutex
	cached string
	loaded bool
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

type tokenFile struct {
	Token string `json:"token"`
}

func (s *FileTokenStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.loaded = true
		data, err := os.ReadFile(s.path)
		if err == nil {
			var tf tokenFile
			if json.Unmarshal(data, &tf) == nil {
				s.cached = tf.Token
			}
		}
	}
	return s.cached, s.cached != ""
}

func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(tokenFile{Token: token})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}
	s.cached = token
	s.loaded = true
	return nil
}

func (s *FileTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	s.loaded = true
	os.Remove(s.path)
}

// MemoryTokenStore keeps the token in memory only.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
