package profile

import (
	"fmt"
	"os"

	"gopkg.in/ini.v1"
)

// Store persists profiles as INI sections, one section per profile keyed
// by profile name. Plaintext at rest; no locking against concurrent
// writers.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path. The file does
// not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() (*ini.File, error) {
	f, err := ini.Load(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ini.Empty(), nil
		}
		return nil, fmt.Errorf("failed to read profile store: %w", err)
	}
	return f, nil
}

// LoadAll parses the store and returns every saved profile. An absent
// store yields an empty slice. Missing keys load as empty strings and are
// only rejected when the profile is used.
func (s *Store) LoadAll() ([]Profile, error) {
	f, err := s.load()
	if err != nil {
		return nil, err
	}

	var profiles []Profile
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		profiles = append(profiles, Profile{
			Name:       section.Name(),
			Hostname:   section.Key("hostname").String(),
			Port:       section.Key("port").String(),
			Username:   section.Key("username").String(),
			Password:   section.Key("password").String(),
			Device:     section.Key("device").String(),
			Mapper:     section.Key("mapper").String(),
			MountPoint: section.Key("mount_point").String(),
		})
	}
	return profiles, nil
}

// Get returns the named profile, or an error when it is not saved.
func (s *Store) Get(name string) (Profile, error) {
	profiles, err := s.LoadAll()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile not found: %s", name)
}

// Save merges the profile into the store, overwriting any section with
// the same name and preserving all others.
func (s *Store) Save(p Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	f, err := s.load()
	if err != nil {
		return err
	}

	f.DeleteSection(p.Name)
	section, err := f.NewSection(p.Name)
	if err != nil {
		return fmt.Errorf("failed to create profile section: %w", err)
	}
	section.Key("hostname").SetValue(p.Hostname)
	section.Key("port").SetValue(p.Port)
	section.Key("username").SetValue(p.Username)
	section.Key("password").SetValue(p.Password)
	section.Key("device").SetValue(p.Device)
	section.Key("mapper").SetValue(p.Mapper)
	section.Key("mount_point").SetValue(p.MountPoint)

	if err := f.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	// The store holds plaintext credentials; keep it private to the owner.
	return os.Chmod(s.path, 0600)
}

// Delete removes the named profile. Deleting a profile that does not
// exist is not an error.
func (s *Store) Delete(name string) error {
	f, err := s.load()
	if err != nil {
		return err
	}
	f.DeleteSection(name)
	if err := f.SaveTo(s.path); err != nil {
		return fmt.Errorf("failed to write profile store: %w", err)
	}
	return os.Chmod(s.path, 0600)
}
