package serve_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/streamsed/streamsed"
	"github.com/streamsed/streamsed/pkg/serve"
)

func buildTestAutomaton(t *testing.T) *streamsed.Automaton {
	t.Helper()
	a, err := streamsed.Build([]streamsed.Needle{
		{Pattern: []byte("secret"), Action: streamsed.Elide()},
		{Pattern: []byte("he"), Action: streamsed.Replace([]byte("HE"))},
	})
	require.NoError(t, err)
	return a
}

func decodeResponses(t *testing.T, out *bytes.Buffer) []serve.Response {
	t.Helper()
	var responses []serve.Response
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var resp serve.Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServerRunSendsReadyThenReplace(t *testing.T) {
	a := buildTestAutomaton(t)
	s := serve.New(a, "inline", "test")

	payload, err := json.Marshal(serve.ReplacePayload{Content: "he said secret"})
	require.NoError(t, err)
	req, err := json.Marshal(serve.Request{Type: "replace", Payload: payload})
	require.NoError(t, err)

	in := strings.NewReader(string(req) + "\n")
	var out bytes.Buffer

	err = s.Run(context.Background(), in, &out)
	require.NoError(t, err)

	responses := decodeResponses(t, &out)
	require.Len(t, responses, 2)
	require.Equal(t, "ready", responses[0].Type)
	require.True(t, responses[0].Success)

	require.Equal(t, "replace", responses[1].Type)
	require.True(t, responses[1].Success)

	var data serve.ReplaceData
	require.NoError(t, json.Unmarshal(responses[1].Data, &data))
	require.Equal(t, "HE said ", data.Output)
}

func TestServerRunReportsUnknownRequestType(t *testing.T) {
	a := buildTestAutomaton(t)
	s := serve.New(a, "inline", "test")

	req, err := json.Marshal(serve.Request{Type: "bogus"})
	require.NoError(t, err)

	in := strings.NewReader(string(req) + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), in, &out))

	responses := decodeResponses(t, &out)
	require.Len(t, responses, 2)
	require.Equal(t, "error", responses[1].Type)
	require.False(t, responses[1].Success)
}

func TestServerRunStopsOnCancelledContext(t *testing.T) {
	a := buildTestAutomaton(t)
	s := serve.New(a, "inline", "test")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := strings.NewReader("")
	var out bytes.Buffer
	err := s.Run(ctx, in, &out)
	require.Error(t, err)
}

func TestServerRunHandlesCloseRequest(t *testing.T) {
	a := buildTestAutomaton(t)
	s := serve.New(a, "inline", "test")

	closeReq, err := json.Marshal(serve.Request{Type: "close"})
	require.NoError(t, err)
	payload, err := json.Marshal(serve.ReplacePayload{Content: "he said secret"})
	require.NoError(t, err)
	afterCloseReq, err := json.Marshal(serve.Request{Type: "replace", Payload: payload})
	require.NoError(t, err)

	// A request following "close" must never be processed: Run has to
	// stop as soon as it handles the close, not merely once the input
	// is exhausted.
	in := strings.NewReader(string(closeReq) + "\n" + string(afterCloseReq) + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), in, &out))

	responses := decodeResponses(t, &out)
	require.Len(t, responses, 2)
	require.Equal(t, "ready", responses[0].Type)
	require.Equal(t, "close", responses[1].Type)
}
