package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/streamsed/streamsed/pkg/serve"
)

func resetServeFlags() {
	serveSetName = ""
	serveSetFile = ""
}

func TestRunServeRequiresExactlyOneSource(t *testing.T) {
	resetServeFlags()
	defer resetServeFlags()

	cmd := &cobra.Command{}
	err := runServe(cmd, nil)
	require.Error(t, err)
}

func TestRunServeWithBuiltinSetEmitsReady(t *testing.T) {
	resetServeFlags()
	defer resetServeFlags()

	serveSetName = "redact-common"

	var in bytes.Buffer
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetIn(&in)
	cmd.SetOut(&out)

	require.NoError(t, runServe(cmd, nil))

	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	require.True(t, scanner.Scan())
	var resp serve.Response
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
	require.Equal(t, "ready", resp.Type)
}
