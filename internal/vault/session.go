// Package vault drives the remote-unlock workflow: connect, unlock and
// mount the encrypted volume on the remote host, bridge it locally, and
// unwind everything again with compensating cleanup on partial failure.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/mdelarosa/luksvault/internal/profile"
)

var (
	// ErrNotConnected is returned when a step requires an established
	// connection.
	ErrNotConnected = errors.New("not connected to SSH server")
	// ErrAlreadyMounted is returned when Mount is called twice.
	ErrAlreadyMounted = errors.New("volume already mounted")
	// ErrPortUnreachable means the TCP pre-check failed; authentication
	// was never attempted.
	ErrPortUnreachable = errors.New("port not reachable")
)

// RemoteHost is the remote side of the workflow: authentication checks
// and the cryptsetup/mount operations executed over the transport.
type RemoteHost interface {
	Reachable() bool
	TestAuth(ctx context.Context) error
	CheckCryptsetup(ctx context.Context) error
	Unlock(ctx context.Context, passphrase string) error
	MountVolume(ctx context.Context) error
	UnmountVolume(ctx context.Context) error
	Lock(ctx context.Context) error
}

// Bridge mounts the remote directory into the local filesystem and
// detaches it again.
type Bridge interface {
	Mount(ctx context.Context, localDir string) error
	Unmount(ctx context.Context, localDir string) error
}

// Session is the single workflow instance of a process. It owns its
// profile for its lifetime and tracks the connected/mounted flags; the
// invariant mounted implies connected always holds.
type Session struct {
	remote   RemoteHost
	bridge   Bridge
	prof     profile.Profile
	localDir string

	state     State
	connected bool
	mounted   bool

	// Logf receives user-facing progress and warning lines. Defaults to
	// discarding them.
	Logf func(format string, args ...any)

	// PostMount fires once after a fully successful mount. Best-effort:
	// it has no return channel into the workflow.
	PostMount func(localDir string)
}

// NewSession creates an idle session bound to a local mount directory.
func NewSession(remote RemoteHost, bridge Bridge, prof profile.Profile, localDir string) *Session {
	return &Session{
		remote:   remote,
		bridge:   bridge,
		prof:     prof,
		localDir: localDir,
		state:    StateIdle,
		Logf:     func(string, ...any) {},
	}
}

func (s *Session) State() State      { return s.state }
func (s *Session) Connected() bool   { return s.connected }
func (s *Session) Mounted() bool     { return s.mounted }
func (s *Session) LocalDir() string  { return s.localDir }
func (s *Session) Profile() profile.Profile { return s.prof }

// Connect validates the profile and establishes the session: TCP
// pre-check, authentication marker, remote cryptsetup presence. On any
// failure the session stays Idle with no partial state.
func (s *Session) Connect(ctx context.Context) error {
	if err := s.prof.Validate(); err != nil {
		return err
	}

	s.state = StateConnecting
	if !s.remote.Reachable() {
		s.state = StateIdle
		return fmt.Errorf("%w: port %s on %s", ErrPortUnreachable, s.prof.Port, s.prof.Hostname)
	}
	if err := s.remote.TestAuth(ctx); err != nil {
		s.state = StateIdle
		return err
	}
	if err := s.remote.CheckCryptsetup(ctx); err != nil {
		s.state = StateIdle
		return err
	}

	s.connected = true
	s.state = StateConnected
	return nil
}

// Mount runs the three mount sub-steps in order: remote unlock, remote
// mount, local bridge. Each failure rolls back only the sub-steps that
// already completed; the connection itself survives.
func (s *Session) Mount(ctx context.Context, passphrase string) error {
	if !s.connected {
		return ErrNotConnected
	}
	if s.mounted {
		return ErrAlreadyMounted
	}

	s.Logf("[1/3] Unlocking LUKS container...")
	s.state = StateUnlocking
	if err := s.remote.Unlock(ctx, passphrase); err != nil {
		// Nothing mutated on the remote yet, no rollback needed.
		s.state = StateConnected
		return err
	}

	s.Logf("[2/3] Mounting LUKS volume on remote...")
	if err := s.remote.MountVolume(ctx); err != nil {
		if lockErr := s.remote.Lock(ctx); lockErr != nil {
			s.Logf("Warning: failed to re-lock container after mount failure: %v", lockErr)
		}
		s.state = StateConnected
		return err
	}
	s.state = StateRemoteMounted

	s.Logf("[3/3] Mounting via SSHFS locally...")
	s.state = StateBridging
	if err := s.bridge.Mount(ctx, s.localDir); err != nil {
		// Undo in reverse order: remote mount first, then the mapping.
		if umErr := s.remote.UnmountVolume(ctx); umErr != nil {
			s.Logf("Warning: failed to unmount remote volume after bridge failure: %v", umErr)
		}
		if lockErr := s.remote.Lock(ctx); lockErr != nil {
			s.Logf("Warning: failed to re-lock container after bridge failure: %v", lockErr)
		}
		s.state = StateConnected
		return err
	}

	s.mounted = true
	s.state = StateActive
	if s.PostMount != nil {
		s.PostMount(s.localDir)
	}
	return nil
}

// Unwind tears the mount down: local bridge, remote mount, LUKS mapping.
// All three steps are attempted regardless of earlier failures; the
// returned bool is true only when every step succeeded. The session is
// unmounted afterwards no matter what.
func (s *Session) Unwind(ctx context.Context) bool {
	if !s.mounted {
		return true
	}
	ok := true

	s.Logf("[1/3] Unmounting SSHFS...")
	s.state = StateUnbridging
	if err := s.bridge.Unmount(ctx, s.localDir); err != nil {
		s.Logf("Warning: %v", err)
		ok = false
	}

	s.Logf("[2/3] Unmounting remote volume...")
	s.state = StateRemoteUnmounting
	if err := s.remote.UnmountVolume(ctx); err != nil {
		s.Logf("Warning: %v", err)
		ok = false
	}

	s.Logf("[3/3] Locking LUKS container...")
	s.state = StateLocking
	if err := s.remote.Lock(ctx); err != nil {
		s.Logf("Warning: %v", err)
		ok = false
	}

	s.mounted = false
	s.state = StateConnected
	return ok
}

// Disconnect unwinds any active mount and releases the session. The
// session returns to Idle and its profile reference is dropped.
func (s *Session) Disconnect(ctx context.Context) {
	if s.mounted {
		s.Unwind(ctx)
	}
	s.connected = false
	s.prof = profile.Profile{}
	s.state = StateIdle
}
