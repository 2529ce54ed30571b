package sshfs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mdelarosa/luksvault/internal/profile"
	"github.com/mdelarosa/luksvault/internal/runner"
)

// Options tunes the sshfs connection.
type Options struct {
	Timeout             time.Duration
	ServerAliveInterval int
	ServerAliveCountMax int

	// UID and GID map remote ownership to a local user. Zero values fall
	// back to the current process credentials.
	UID int
	GID int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.ServerAliveInterval <= 0 {
		o.ServerAliveInterval = 20
	}
	if o.ServerAliveCountMax <= 0 {
		o.ServerAliveCountMax = 5
	}
	if o.UID <= 0 {
		o.UID = os.Getuid()
	}
	if o.GID <= 0 {
		o.GID = os.Getgid()
	}
	return o
}

// Mounter bridges a remote directory into the local filesystem with
// sshfs, and tears the bridge down again.
type Mounter struct {
	prof profile.Profile
	run  runner.Runner
	opts Options
}

func NewMounter(prof profile.Profile, run runner.Runner, opts Options) *Mounter {
	return &Mounter{prof: prof, run: run, opts: opts.withDefaults()}
}

// Mount bridges the profile's remote mount point onto localDir. The ssh
// password is delivered over stdin (password_stdin), never as an
// argument.
func (m *Mounter) Mount(ctx context.Context, localDir string) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	args := []string{
		"-p", m.prof.Port,
		"-o", "reconnect",
		"-o", fmt.Sprintf("ServerAliveInterval=%d", m.opts.ServerAliveInterval),
		"-o", fmt.Sprintf("ServerAliveCountMax=%d", m.opts.ServerAliveCountMax),
		"-o", fmt.Sprintf("ConnectTimeout=%d", int(m.opts.Timeout.Seconds())),
		"-o", "password_stdin",
		"-o", "uid=" + strconv.Itoa(m.opts.UID),
		"-o", "gid=" + strconv.Itoa(m.opts.GID),
		"-o", "allow_other",
		m.prof.Username + "@" + m.prof.Hostname + ":" + m.prof.MountPoint,
		localDir,
	}

	res, err := m.run.Run(ctx, runner.Cmd{
		Name:  "sshfs",
		Args:  args,
		Stdin: m.prof.Password + "\n",
	})
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("sshfs mount timed out - check network connection: %w", ctx.Err())
		}
		return fmt.Errorf("sshfs mount failed: %w", err)
	}
	if !res.Ok() {
		return fmt.Errorf("sshfs mount failed: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}

// unmount strategies, tried in order until one reports success. The list
// starts with the non-privileged FUSE unmount and escalates to lazy and
// privileged variants for stale or busy mounts.
var unmountStrategies = [][]string{
	{"fusermount", "-u"},
	{"umount", "-l"},
	{"umount"},
	{"sudo", "umount"},
}

// Unmount detaches localDir, accepting the first strategy that succeeds.
func (m *Mounter) Unmount(ctx context.Context, localDir string) error {
	for _, strategy := range unmountStrategies {
		res, err := m.run.Run(ctx, runner.Cmd{
			Name: strategy[0],
			Args: append(append([]string{}, strategy[1:]...), localDir),
		})
		if err == nil && res.Ok() {
			return nil
		}
	}
	return fmt.Errorf("could not unmount %s - try manually: sudo umount -f %s", localDir, localDir)
}
