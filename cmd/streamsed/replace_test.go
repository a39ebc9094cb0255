package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetReplaceFlags() {
	replaceSetName = ""
	replaceSetFile = ""
	replaceInPath = ""
	replaceOutPath = ""
	replaceBufSize = 4096
	replaceColor = "never"
	replaceSummary = false
}

func TestRunReplaceRequiresExactlyOneSource(t *testing.T) {
	resetReplaceFlags()
	defer resetReplaceFlags()

	cmd := &cobra.Command{}
	err := runReplace(cmd, nil)
	require.Error(t, err)

	replaceSetName = "redact-common"
	replaceSetFile = "whatever.yml"
	err = runReplace(cmd, nil)
	require.Error(t, err)
}

func TestRunReplaceWithCustomFile(t *testing.T) {
	resetReplaceFlags()
	defer resetReplaceFlags()

	dir := t.TempDir()
	setPath := filepath.Join(dir, "set.yml")
	require.NoError(t, os.WriteFile(setPath, []byte(`
name: test
needles:
  - pattern: "he"
    replace: "HE"
  - pattern: "secret"
    elide: true
`), 0o644))

	inPath := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(inPath, []byte("he said secret"), 0o644))
	outPath := filepath.Join(dir, "out.txt")

	replaceSetFile = setPath
	replaceInPath = inPath
	replaceOutPath = outPath

	var stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&stderr)

	require.NoError(t, runReplace(cmd, nil))

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "HE said ", string(out))
}

func TestRunReplaceRejectsUnknownBuiltinSet(t *testing.T) {
	resetReplaceFlags()
	defer resetReplaceFlags()

	replaceSetName = "does-not-exist"
	cmd := &cobra.Command{}
	err := runReplace(cmd, nil)
	require.Error(t, err)
}
