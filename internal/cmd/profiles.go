package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mdelarosa/luksvault/internal/config"
	"github.com/mdelarosa/luksvault/internal/profile"
	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List saved connection profiles",
	Long:  `List all saved connection profiles with their host and volume details.`,
	RunE:  runProfiles,
}

var rmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(rmCmd)
}

func profileStore() (*profile.Store, error) {
	path, err := config.ProfilePath()
	if err != nil {
		return nil, err
	}
	return profile.NewStore(path), nil
}

func runProfiles(cmd *cobra.Command, args []string) error {
	store, err := profileStore()
	if err != nil {
		return err
	}

	profiles, err := store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("No saved profiles. Run 'luksvault mount' to create one.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tHOST\tUSER\tDEVICE\tMAPPER")
	_, _ = fmt.Fprintln(w, "----\t----\t----\t------\t------")

	for _, p := range profiles {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name,
			p.Addr(),
			p.Username,
			p.Device,
			p.Mapper,
		)
	}

	_ = w.Flush()
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	store, err := profileStore()
	if err != nil {
		return err
	}

	name := args[0]
	if _, err := store.Get(name); err != nil {
		return err
	}
	if err := store.Delete(name); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	fmt.Printf("Deleted profile %q\n", name)
	return nil
}
