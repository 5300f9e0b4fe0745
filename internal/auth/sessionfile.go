// ABOUTME: Persists session tokens between CLI invocations
// ABOUTME: Stores access and refresh tokens as JSON in the config directory

package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

const sessionFileName = "session.json"

// SessionFile reads and writes <configDir>/session.json.
// An empty configDir turns every operation into a no-op.
type SessionFile struct {
	configDir string
}

type sessionData struct {
	Access  string    `json:"access"`
	Refresh string    `json:"refresh,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

func NewSessionFile(configDir string) *SessionFile {
	return &SessionFile{configDir: configDir}
}

// Path returns the location of the session file
func (f *SessionFile) Path() string {
	if f == nil || f.configDir == "" {
		return ""
	}
	return filepath.Join(f.configDir, sessionFileName)
}

// Load returns the stored tokens. A missing or unreadable file yields empty
// tokens and no error so the caller simply starts unauthenticated.
func (f *SessionFile) Load() (access, refresh string, err error) {
	path := f.Path()
	if path == "" {
		return "", "", nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}

	var stored sessionData
	if err := json.Unmarshal(data, &stored); err != nil {
		// Invalid JSON, start fresh
		return "", "", nil
	}
	return stored.Access, stored.Refresh, nil
}

// Save writes the tokens with owner-only permissions
func (f *SessionFile) Save(access, refresh string) error {
	path := f.Path()
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sessionData{
		Access:  access,
		Refresh: refresh,
		SavedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Clear removes the session file
func (f *SessionFile) Clear() error {
	path := f.Path()
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
