package http

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/labtour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSubscribeEvents_StreamsDiffs(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eng, err := labtour.New("")
	require.NoError(t, err)
	streams := NewStreamManager(0, nil)
	handler, err := NewHandler(eng, WithStreams(streams))
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	defer srv.Close()
	client := srv.Client()
	defer client.CloseIdleConnections()

	ctx := context.Background()
	_, err = eng.Start(ctx, "sess-1", "")
	require.NoError(t, err)

	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	req, err := http.NewRequestWithContext(subCtx, http.MethodGet, srv.URL+"/events?session_id=sess-1&watch=current_index", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	next := func() string {
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					return ""
				}
				if strings.HasPrefix(line, "data: ") {
					return strings.TrimPrefix(line, "data: ")
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for SSE data")
				return ""
			}
		}
	}

	assert.Equal(t, "connected", next())
	require.Eventually(t, func() bool { return streams.Subscribers("sess-1") == 1 }, time.Second, 10*time.Millisecond)

	// Filtered out: only global_state changes.
	post(t, client, srv.URL+"/sessions/sess-1/state/notes", http.MethodPut, `{"value":"x"}`)
	post(t, client, srv.URL+"/sessions/sess-1/advance", http.MethodPost, "")

	msg := next()
	assert.Contains(t, msg, `"current_index":1`)
	assert.NotContains(t, msg, "notes")

	cancel()
	for range lines {
	}
	require.Eventually(t, func() bool { return streams.Subscribers("sess-1") == 0 }, time.Second, 10*time.Millisecond)
}

func post(t *testing.T, client *http.Client, url, method, body string) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
