package profile

import "fmt"

// Profile is a named bundle of remote-connection and volume parameters.
// Profiles are immutable once loaded; re-saving under the same name
// overwrites the stored copy.
type Profile struct {
	Name       string
	Hostname   string
	Port       string
	Username   string
	Password   string
	Device     string // encrypted block device, e.g. /dev/sdb1
	Mapper     string // device-mapper name for the unlocked volume
	MountPoint string // remote mount path
}

// Validate requires every field to be non-empty. Stored profiles are not
// validated at load time; missing keys surface here when a session tries
// to use the profile.
func (p Profile) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"hostname", p.Hostname},
		{"port", p.Port},
		{"username", p.Username},
		{"password", p.Password},
		{"device", p.Device},
		{"mapper", p.Mapper},
		{"mount_point", p.MountPoint},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("profile %q: %s must not be empty", p.Name, f.name)
		}
	}
	return nil
}

// Addr returns the host:port pair for display and dialing.
func (p Profile) Addr() string {
	return p.Hostname + ":" + p.Port
}
