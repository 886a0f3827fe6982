package serve

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(cfg Config) *httptest.Server {
	return httptest.NewServer(NewServer(cfg).Handler())
}

func post(t *testing.T, srv *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHealth(t *testing.T) {
	srv := newTestServer(Config{Version: "test"})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Equal(t, int64(DefaultMaxSteps), health.MaxSteps)
}

func TestRun(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/run", `{"code":"++++++[>++++++++++<-]>."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<", body["output"])
	assert.Equal(t, float64(1), body["pointer"])
	assert.Equal(t, []any{float64(0), float64(60)}, body["tape"])
	assert.NotContains(t, body, "error")
}

func TestRunParseError(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/run", `{"code":"+\n]","filename":"bad.b"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "E1001", errInfo["code"])
	assert.Equal(t, "parse error", errInfo["kind"])
	assert.Equal(t, float64(2), errInfo["line"])
	assert.Equal(t, float64(1), errInfo["column"])
	assert.Contains(t, errInfo["detail"], "--> bad.b:2:1")
	assert.Contains(t, errInfo["detail"], " 2 | ]")
	assert.NotContains(t, body, "output")
}

func TestRunRuntimeErrorKeepsPartialOutput(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/run", `{"code":"+.<<"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "\x01", body["output"])
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "E3001", errInfo["code"])
	assert.Equal(t, "pointer underflow", errInfo["message"])
	assert.Contains(t, errInfo["detail"], "runtime error[E3001]: pointer underflow")
}

func TestRunStepLimit(t *testing.T) {
	srv := newTestServer(Config{MaxSteps: 500})
	defer srv.Close()

	// The request may lower the limit but not raise it.
	_, body := post(t, srv, "/v1/run", `{"code":"+[]","max_steps":100}`)
	assert.Equal(t, float64(100), body["steps"])
	assert.Equal(t, "E3003", body["error"].(map[string]any)["code"])

	_, body = post(t, srv, "/v1/run", `{"code":"+[]","max_steps":100000}`)
	assert.Equal(t, float64(500), body["steps"])
}

func TestParse(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/parse", `{"code":"++[-]","collapse":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tree := body["tree"].([]any)
	assert.Len(t, tree, 4)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(5), stats["node_count"])
	assert.Equal(t, float64(1), stats["max_depth"])
}

func TestParseUnclosed(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/parse", `{"code":"[[+]"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "E1002", body["error"].(map[string]any)["code"])
}

func TestBadRequest(t *testing.T) {
	srv := newTestServer(Config{})
	defer srv.Close()

	resp, body := post(t, srv, "/v1/run", `{"program":"+"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"].(map[string]any)["message"], "invalid request")

	resp, _ = post(t, srv, "/v1/run", `not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer(Config{MaxBodyBytes: 64})
	defer srv.Close()

	resp, _ := post(t, srv, "/v1/run", `{"code":"`+strings.Repeat("+", 200)+`"}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestRequestsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	srv := newTestServer(Config{Logger: zerolog.New(&buf)})
	post(t, srv, "/v1/run", `{"code":"+."}`)
	// Close waits for outstanding requests, including the log write.
	srv.Close()

	out := buf.String()
	assert.Contains(t, out, `"message":"request"`)
	assert.Contains(t, out, `"path":"/v1/run"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"request_id"`)
}
