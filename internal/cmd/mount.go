package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdelarosa/luksvault/internal/config"
	"github.com/mdelarosa/luksvault/internal/profile"
	"github.com/mdelarosa/luksvault/internal/remote"
	"github.com/mdelarosa/luksvault/internal/runner"
	"github.com/mdelarosa/luksvault/internal/sshfs"
	"github.com/mdelarosa/luksvault/internal/state"
	"github.com/mdelarosa/luksvault/internal/vault"
	"github.com/mdelarosa/luksvault/internal/viewer"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	mountProfileName string
	mountNoViewer    bool
)

var mountCmd = &cobra.Command{
	Use:   "mount",
	Short: "Connect, unlock and mount a remote LUKS volume",
	Long: `Connect to a remote host, unlock the encrypted volume there, mount it
remotely and bridge the filesystem into the local mount directory.

The command holds the mount until you press Enter or interrupt it, then
unmounts and locks everything again.

Examples:
  luksvault mount                  # pick or create a profile interactively
  luksvault mount --profile home`,
	RunE: runMount,
}

func init() {
	mountCmd.Flags().StringVarP(&mountProfileName, "profile", "p", "", "saved profile to use (skips interactive selection)")
	mountCmd.Flags().BoolVar(&mountNoViewer, "no-viewer", false, "do not launch a file manager after mounting")

	rootCmd.AddCommand(mountCmd)
}

func runMount(cmd *cobra.Command, args []string) error {
	run := runner.NewExecRunner()
	if err := runner.CheckDependencies(run); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to create config directories: %w", err)
	}
	Debug("Config loaded, mount dir: %s", cfg.MountDir)

	prof, err := pickProfile()
	if err != nil {
		return err
	}
	Debug("Using profile %q (%s)", prof.Name, prof.Addr())

	client := remote.NewClient(prof, run, remote.Options{
		Probe:   cfg.Timeouts.Probe,
		Connect: cfg.Timeouts.Connect,
		Unlock:  cfg.Timeouts.Unlock,
	})
	bridge := sshfs.NewMounter(prof, run, sshfs.Options{
		Timeout:             cfg.Timeouts.Bridge,
		ServerAliveInterval: cfg.Bridge.ServerAliveInterval,
		ServerAliveCountMax: cfg.Bridge.ServerAliveCountMax,
	})

	sess := vault.NewSession(client, bridge, prof, cfg.MountDir)
	sess.Logf = func(format string, a ...any) {
		fmt.Printf(format+"\n", a...)
	}
	if !mountNoViewer {
		sess.PostMount = func(dir string) {
			if name := viewer.Launch(run, cfg.Viewers, dir); name != "" {
				fmt.Printf("Opened %s on %s\n", name, dir)
			} else {
				Debug("No file manager launched")
			}
		}
	}

	ctx := context.Background()

	fmt.Printf("Connecting to %s...\n", prof.Addr())
	if err := sess.Connect(ctx); err != nil {
		printConnectHints(err)
		return err
	}

	passphrase, err := readPassphrase()
	if err != nil {
		sess.Disconnect(ctx)
		return err
	}

	if err := sess.Mount(ctx, passphrase); err != nil {
		if errors.Is(err, remote.ErrWrongPassphrase) {
			errorf("Error: wrong passphrase or the device is not a LUKS volume")
		}
		sess.Disconnect(ctx)
		return err
	}

	successf("Successfully mounted!")
	fmt.Printf("Access files at: %s\n", cfg.MountDir)

	saveActiveSession(prof, cfg.MountDir)

	waitForRelease()

	// The hold may have ended through a signal; tear down with a fresh
	// context so cleanup is never cancelled mid-flight.
	unwindCtx := context.Background()
	clean := sess.Unwind(unwindCtx)
	sess.Disconnect(unwindCtx)
	clearActiveSession()

	if clean {
		successf("Volume successfully unmounted and locked")
	} else {
		warnf("Teardown finished with warnings - check the messages above")
	}
	fmt.Println("Disconnected")
	return nil
}

// pickProfile resolves --profile, or walks the interactive selection and
// creation flow. Newly created profiles are persisted before use.
func pickProfile() (profile.Profile, error) {
	path, err := config.ProfilePath()
	if err != nil {
		return profile.Profile{}, err
	}
	store := profile.NewStore(path)

	if mountProfileName != "" {
		return store.Get(mountProfileName)
	}

	profiles, err := store.LoadAll()
	if err != nil {
		return profile.Profile{}, err
	}
	if len(profiles) > 0 {
		selected, err := profile.PromptSelect(profiles)
		if err != nil {
			return profile.Profile{}, err
		}
		if selected != nil {
			return *selected, nil
		}
	}

	created, err := profile.PromptNew()
	if err != nil {
		return profile.Profile{}, err
	}
	if err := store.Save(created); err != nil {
		return profile.Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	fmt.Printf("Saved profile %q\n", created.Name)
	return created, nil
}

func readPassphrase() (string, error) {
	fmt.Print("Enter LUKS passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	if len(pass) == 0 {
		return "", errors.New("passphrase must not be empty")
	}
	return string(pass), nil
}

// waitForRelease blocks until the user presses Enter or the process is
// interrupted. An interrupt means "unmount and disconnect", not abrupt
// termination.
func waitForRelease() {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enter := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
		close(enter)
	}()

	fmt.Println("\nPress Enter to unmount and disconnect...")
	select {
	case <-enter:
	case <-sigCtx.Done():
		fmt.Println("\nInterrupt received, unmounting...")
	}
}

func printConnectHints(err error) {
	switch {
	case errors.Is(err, vault.ErrPortUnreachable):
		warnf("Check firewall and port forwarding settings")
	case errors.Is(err, remote.ErrAuthFailed):
		warnf("Potential issues:")
		warnf("- Incorrect credentials")
		warnf("- SSH server configuration")
		warnf("- Network restrictions")
	case errors.Is(err, remote.ErrCryptsetupMissing):
		warnf("Install it on the remote host: sudo apt install cryptsetup")
	}
}

func saveActiveSession(prof profile.Profile, localDir string) {
	dir, err := config.Dir()
	if err != nil {
		Debug("Failed to resolve config dir: %v", err)
		return
	}
	store, err := state.NewStore(dir)
	if err != nil {
		Debug("Failed to open state store: %v", err)
		return
	}
	sess := state.NewActiveSession(prof.Name, localDir, prof.MountPoint, prof.Mapper)
	if err := store.Save(sess); err != nil {
		Debug("Failed to record active session: %v", err)
	}
}

func clearActiveSession() {
	dir, err := config.Dir()
	if err != nil {
		return
	}
	store, err := state.NewStore(dir)
	if err != nil {
		return
	}
	if err := store.Clear(); err != nil {
		Debug("Failed to clear active session: %v", err)
	}
}
