package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var debug bool

// Debug prints a message if debug mode is enabled
func Debug(format string, args ...interface{}) {
	if debug {
		fmt.Printf("[DEBUG] "+format+"\n", args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "luksvault",
	Short: "luksvault - mount remote LUKS volumes locally",
	Long: `luksvault unlocks a LUKS-encrypted volume on a remote host over SSH,
mounts it there and bridges the filesystem to a local directory via SSHFS.

Mount a volume:
  luksvault mount
  luksvault mount --profile home

Manage profiles:
  luksvault profiles
  luksvault rm <name>

Inspect or tear down an existing mount:
  luksvault status
  luksvault unmount`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}
