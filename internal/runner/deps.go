package runner

import (
	"fmt"
	"strings"
)

// RequiredTools are the local programs the workflow shells out to.
var RequiredTools = []string{"sshpass", "sshfs", "fusermount", "umount"}

// CheckDependencies verifies every required local tool is installed and
// returns an error naming all missing ones, with install hints.
func CheckDependencies(r Runner) error {
	var missing []string
	for _, tool := range RequiredTools {
		if _, err := r.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	msg := fmt.Sprintf("missing required dependencies: %s", strings.Join(missing, ", "))
	for _, tool := range missing {
		if tool == "sshfs" || tool == "sshpass" {
			msg += "\n  Debian/Ubuntu: sudo apt install sshfs sshpass" +
				"\n  Arch:          sudo pacman -S sshfs sshpass" +
				"\n  Fedora:        sudo dnf install fuse-sshfs sshpass"
			break
		}
	}
	return fmt.Errorf("%s", msg)
}
