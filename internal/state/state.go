package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ActiveSession records the one mount a luksvault process may hold, so
// `status` and `unmount` can see a bridge left behind by another process.
type ActiveSession struct {
	ID          string    `json:"id"`
	Profile     string    `json:"profile"`
	LocalDir    string    `json:"local_dir"`
	RemotePoint string    `json:"remote_point"`
	Mapper      string    `json:"mapper"`
	MountedAt   time.Time `json:"mounted_at"`
}

// NewActiveSession builds a record with a fresh id.
func NewActiveSession(profileName, localDir, remotePoint, mapper string) *ActiveSession {
	return &ActiveSession{
		ID:          uuid.NewString(),
		Profile:     profileName,
		LocalDir:    localDir,
		RemotePoint: remotePoint,
		Mapper:      mapper,
		MountedAt:   time.Now(),
	}
}

// Store persists the active-session record as a single JSON file under
// the config directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given directory, creating it if
// needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, "session.json")
}

// Save persists the record to disk.
func (s *Store) Save(sess *ActiveSession) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load reads the active-session record. It returns (nil, nil) when no
// session is recorded.
func (s *Store) Load() (*ActiveSession, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var sess ActiveSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Clear removes the record. Clearing an absent record is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}
