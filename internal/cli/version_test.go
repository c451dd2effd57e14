package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_PrintsBuildInfo(t *testing.T) {
	root := newRootCmd("1.2.3", "abc1234", "2026-08-24")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "venvsweep version 1.2.3 (commit: abc1234, built: 2026-08-24)\n", buf.String())
}
