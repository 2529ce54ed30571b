package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunner(t *testing.T) {
	ctx := context.Background()
	run := NewExecRunner()

	t.Run("captures stdout and exit code", func(t *testing.T) {
		res, err := run.Run(ctx, Cmd{Name: "sh", Args: []string{"-c", "echo hello"}})
		require.NoError(t, err)
		assert.True(t, res.Ok())
		assert.Equal(t, "hello\n", res.Stdout)
	})

	t.Run("non-zero exit is an outcome, not an error", func(t *testing.T) {
		res, err := run.Run(ctx, Cmd{Name: "sh", Args: []string{"-c", "echo oops >&2; exit 3"}})
		require.NoError(t, err)
		assert.False(t, res.Ok())
		assert.Equal(t, 3, res.ExitCode)
		assert.Equal(t, "oops\n", res.Stderr)
	})

	t.Run("feeds stdin to the process", func(t *testing.T) {
		res, err := run.Run(ctx, Cmd{Name: "cat", Stdin: "line1\nline2"})
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", res.Stdout)
	})

	t.Run("extends the environment", func(t *testing.T) {
		res, err := run.Run(ctx, Cmd{
			Name: "sh",
			Args: []string{"-c", "printf %s \"$LUKSVAULT_TEST\""},
			Env:  []string{"LUKSVAULT_TEST=ok"},
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", res.Stdout)
	})

	t.Run("unknown binary is a start error", func(t *testing.T) {
		_, err := run.Run(ctx, Cmd{Name: "definitely-not-a-real-binary"})
		assert.Error(t, err)
	})
}
