package cmd

import (
	"context"
	"fmt"

	"github.com/mdelarosa/luksvault/internal/config"
	"github.com/mdelarosa/luksvault/internal/remote"
	"github.com/mdelarosa/luksvault/internal/runner"
	"github.com/mdelarosa/luksvault/internal/sshfs"
	"github.com/spf13/cobra"
)

var unmountCmd = &cobra.Command{
	Use:   "unmount",
	Short: "Tear down the recorded mount",
	Long: `Unmount the bridge, the remote volume and the LUKS mapping recorded in
the active-session file. Useful when a previous 'luksvault mount' process
died without unwinding.`,
	RunE: runUnmount,
}

func init() {
	rootCmd.AddCommand(unmountCmd)
}

func runUnmount(cmd *cobra.Command, args []string) error {
	store, err := stateStore()
	if err != nil {
		return fmt.Errorf("failed to access state store: %w", err)
	}
	sess, err := store.Load()
	if err != nil {
		return err
	}
	if sess == nil {
		fmt.Println("No active session.")
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	profStore, err := profileStore()
	if err != nil {
		return err
	}
	prof, profErr := profStore.Get(sess.Profile)

	run := runner.NewExecRunner()
	ctx := context.Background()
	clean := true

	fmt.Println("[1/3] Unmounting SSHFS...")
	bridge := sshfs.NewMounter(prof, run, sshfs.Options{Timeout: cfg.Timeouts.Bridge})
	if err := bridge.Unmount(ctx, sess.LocalDir); err != nil {
		warnf("Warning: %v", err)
		clean = false
	}

	if profErr != nil {
		warnf("Profile %q is gone; skipping remote unmount and lock", sess.Profile)
		warnf("Unlock mapping %q on the remote host manually", sess.Mapper)
		clean = false
	} else {
		client := remote.NewClient(prof, run, remote.Options{
			Probe:   cfg.Timeouts.Probe,
			Connect: cfg.Timeouts.Connect,
			Unlock:  cfg.Timeouts.Unlock,
		})

		fmt.Println("[2/3] Unmounting remote volume...")
		if err := client.UnmountVolume(ctx); err != nil {
			warnf("Warning: %v", err)
			clean = false
		}

		fmt.Println("[3/3] Locking LUKS container...")
		if err := client.Lock(ctx); err != nil {
			warnf("Warning: %v", err)
			clean = false
		}
	}

	if err := store.Clear(); err != nil {
		warnf("Warning: %v", err)
	}

	if clean {
		successf("Volume successfully unmounted and locked")
	} else {
		warnf("Teardown finished with warnings - check the messages above")
	}
	return nil
}
