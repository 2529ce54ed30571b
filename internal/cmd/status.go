package cmd

import (
	"fmt"

	"github.com/mdelarosa/luksvault/internal/config"
	"github.com/mdelarosa/luksvault/internal/state"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active mount, if any",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func stateStore() (*state.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	return state.NewStore(dir)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Session:      %s\n", sess.ID)
	fmt.Printf("Profile:      %s\n", sess.Profile)
	fmt.Printf("Local mount:  %s\n", sess.LocalDir)
	fmt.Printf("Remote mount: %s\n", sess.RemotePoint)
	fmt.Printf("Mapper:       %s\n", sess.Mapper)
	fmt.Printf("Mounted at:   %s\n", sess.MountedAt.Format("2006-01-02 15:04:05"))
	return nil
}
