package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersion_Output(t *testing.T) {
	SetVersionInfo("1.2.3", "abc1234", "2026-01-15")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	cmd := Version()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "fogctl 1.2.3")
	assert.Contains(t, out.String(), "commit: abc1234")
	assert.Contains(t, out.String(), "built:  2026-01-15")
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	cmd := Completion()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"tcsh"})

	assert.Error(t, cmd.Execute())
}
