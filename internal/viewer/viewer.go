// Package viewer launches a local file manager on the mounted directory.
// The launch is best-effort and fire-and-forget: it never blocks the
// workflow and its failure is reported only through the return value,
// which callers log and otherwise ignore.
package viewer

import (
	"os"

	"github.com/mdelarosa/luksvault/internal/runner"
)

// DefaultCandidates are probed in order when no list is configured.
var DefaultCandidates = []string{"thunar", "dolphin", "nautilus", "pcmanfm", "nemo"}

// Launch starts the first available candidate pointed at dir as a
// detached process and returns its name. It returns "" when no graphical
// display is present or no candidate is installed.
func Launch(run runner.Runner, candidates []string, dir string) string {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return ""
	}
	if len(candidates) == 0 {
		candidates = DefaultCandidates
	}

	for _, name := range candidates {
		if _, err := run.LookPath(name); err != nil {
			continue
		}
		if err := run.Start(name, dir); err != nil {
			continue
		}
		return name
	}
	return ""
}
