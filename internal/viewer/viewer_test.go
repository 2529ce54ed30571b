package viewer

import (
	"context"
	"errors"
	"testing"

	"github.com/mdelarosa/luksvault/internal/runner"
	"github.com/stretchr/testify/assert"
)

type fakeRunner struct {
	installed map[string]bool
	startErr  map[string]error
	started   []string
}

func (f *fakeRunner) Run(ctx context.Context, c runner.Cmd) (runner.Result, error) {
	return runner.Result{}, nil
}

func (f *fakeRunner) Start(name string, args ...string) error {
	if err := f.startErr[name]; err != nil {
		return err
	}
	f.started = append(f.started, name)
	return nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func TestLaunch(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	t.Setenv("WAYLAND_DISPLAY", "")

	t.Run("picks the first installed candidate", func(t *testing.T) {
		run := &fakeRunner{installed: map[string]bool{"dolphin": true, "nemo": true}}
		got := Launch(run, nil, "/tmp/mnt")
		assert.Equal(t, "dolphin", got)
		assert.Equal(t, []string{"dolphin"}, run.started)
	})

	t.Run("falls through when a candidate fails to start", func(t *testing.T) {
		run := &fakeRunner{
			installed: map[string]bool{"thunar": true, "nautilus": true},
			startErr:  map[string]error{"thunar": errors.New("boom")},
		}
		got := Launch(run, nil, "/tmp/mnt")
		assert.Equal(t, "nautilus", got)
	})

	t.Run("nothing installed", func(t *testing.T) {
		run := &fakeRunner{}
		assert.Empty(t, Launch(run, nil, "/tmp/mnt"))
	})

	t.Run("configured list overrides defaults", func(t *testing.T) {
		run := &fakeRunner{installed: map[string]bool{"thunar": true, "pcmanfm": true}}
		got := Launch(run, []string{"pcmanfm"}, "/tmp/mnt")
		assert.Equal(t, "pcmanfm", got)
	})
}

func TestLaunchHeadless(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	run := &fakeRunner{installed: map[string]bool{"thunar": true}}
	assert.Empty(t, Launch(run, nil, "/tmp/mnt"))
	assert.Empty(t, run.started)
}
