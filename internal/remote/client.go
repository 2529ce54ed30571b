package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mdelarosa/luksvault/internal/profile"
	"github.com/mdelarosa/luksvault/internal/runner"
)

// authMarker is echoed by the remote shell to prove authentication
// succeeded; ssh noise on stderr is ignored.
const authMarker = "CONNECTION_TEST_SUCCESS"

var (
	// ErrUnreachable means the TCP pre-check failed before any ssh attempt.
	ErrUnreachable = errors.New("port not reachable")
	// ErrAuthFailed means ssh ran but the authentication marker never
	// appeared in its output.
	ErrAuthFailed = errors.New("SSH authentication or connection failed")
	// ErrCryptsetupMissing means the remote host has no cryptsetup binary.
	ErrCryptsetupMissing = errors.New("cryptsetup not found on remote host")
	// ErrWrongPassphrase means cryptsetup rejected the unlock key.
	ErrWrongPassphrase = errors.New("wrong passphrase or not a LUKS device")
)

// Options bounds the blocking remote calls.
type Options struct {
	Probe   time.Duration
	Connect time.Duration
	Unlock  time.Duration
}

func (o Options) withDefaults() Options {
	if o.Probe <= 0 {
		o.Probe = 5 * time.Second
	}
	if o.Connect <= 0 {
		o.Connect = 15 * time.Second
	}
	if o.Unlock <= 0 {
		o.Unlock = 20 * time.Second
	}
	return o
}

// Client runs commands on the host described by a profile, authenticated
// through sshpass. The ssh password travels in the SSHPASS environment
// variable and any other secret through stdin; nothing secret is placed
// on an argument vector, local or remote.
type Client struct {
	prof profile.Profile
	run  runner.Runner
	opts Options
}

func NewClient(prof profile.Profile, run runner.Runner, opts Options) *Client {
	return &Client{prof: prof, run: run, opts: opts.withDefaults()}
}

// sudoPrefix runs a command under sudo with the password read from the
// first line of stdin and no prompt written to the terminal.
var sudoPrefix = []string{"sudo", "-S", "-p", "''"}

func (c *Client) ssh(ctx context.Context, timeout time.Duration, pty bool, stdin, command string) (runner.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := []string{
		"-e", "ssh",
		"-p", c.prof.Port,
		"-o", "StrictHostKeyChecking=no",
		"-o", fmt.Sprintf("ConnectTimeout=%d", int(c.opts.Connect.Seconds())),
	}
	if pty {
		// Privilege elevation with piped credentials needs a pseudo-terminal.
		args = append(args, "-t")
	}
	args = append(args, c.prof.Username+"@"+c.prof.Hostname, command)

	return c.run.Run(ctx, runner.Cmd{
		Name:  "sshpass",
		Args:  args,
		Stdin: stdin,
		Env:   []string{"SSHPASS=" + c.prof.Password},
	})
}

// Reachable reports whether the profile's ssh port accepts connections.
func (c *Client) Reachable() bool {
	return Reachable(c.prof.Hostname, c.prof.Port, c.opts.Probe)
}

// TestAuth validates credentials by echoing a marker through the remote
// shell.
func (c *Client) TestAuth(ctx context.Context) error {
	res, err := c.ssh(ctx, c.opts.Connect+5*time.Second, false, "", "echo "+authMarker)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	if !strings.Contains(res.Stdout, authMarker) {
		return fmt.Errorf("%w: %s", ErrAuthFailed, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// CheckCryptsetup verifies the remote disk-encryption tool is installed.
func (c *Client) CheckCryptsetup(ctx context.Context) error {
	res, err := c.ssh(ctx, c.opts.Connect+5*time.Second, false, "", "command -v cryptsetup")
	if err != nil {
		return fmt.Errorf("failed to check for cryptsetup: %w", err)
	}
	if !res.Ok() {
		return ErrCryptsetupMissing
	}
	return nil
}

// Unlock opens the LUKS container. The stdin payload carries the sudo
// password on the first line and the passphrase after it; cryptsetup
// reads the key from stdin via --key-file=- so it never appears in a
// process listing.
func (c *Client) Unlock(ctx context.Context, passphrase string) error {
	script := NewScript().
		Cmd(append(sudoPrefix, "cryptsetup", "luksOpen", "--key-file=-"), c.prof.Device, c.prof.Mapper).
		String()
	stdin := c.prof.Password + "\n" + passphrase

	res, err := c.ssh(ctx, c.opts.Unlock, true, stdin, script)
	if err != nil {
		return fmt.Errorf("failed to unlock LUKS container: %w", err)
	}
	if !res.Ok() {
		if strings.Contains(res.Stderr, "No key available") {
			return ErrWrongPassphrase
		}
		return fmt.Errorf("failed to unlock LUKS container: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// MountVolume creates the remote mount point, mounts the mapped device
// on it and relaxes permissions for non-root access over the bridge.
func (c *Client) MountVolume(ctx context.Context) error {
	script := NewScript().
		Cmd(append(sudoPrefix, "mkdir", "-p"), c.prof.MountPoint).
		Cmd([]string{"sudo", "mount"}, "/dev/mapper/"+c.prof.Mapper, c.prof.MountPoint).
		Cmd([]string{"sudo", "chmod", "-R", "777"}, c.prof.MountPoint).
		String()

	res, err := c.ssh(ctx, c.opts.Unlock, true, c.prof.Password, script)
	if err != nil {
		return fmt.Errorf("failed to mount remote volume: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("failed to mount remote volume: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// UnmountVolume unmounts the remote mount point.
func (c *Client) UnmountVolume(ctx context.Context) error {
	script := NewScript().
		Cmd(append(sudoPrefix, "umount"), c.prof.MountPoint).
		String()

	res, err := c.ssh(ctx, c.opts.Unlock, false, c.prof.Password, script)
	if err != nil {
		return fmt.Errorf("failed to unmount remote volume: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("failed to unmount remote volume: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// Lock closes the LUKS mapping.
func (c *Client) Lock(ctx context.Context) error {
	script := NewScript().
		Cmd(append(sudoPrefix, "cryptsetup", "luksClose"), c.prof.Mapper).
		String()

	res, err := c.ssh(ctx, c.opts.Unlock, false, c.prof.Password, script)
	if err != nil {
		return fmt.Errorf("failed to close LUKS container: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("failed to close LUKS container: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}
