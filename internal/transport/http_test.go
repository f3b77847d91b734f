package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method    string
	sessionID string
	clientID  string
	err       error
}

func (h *testHandler) Handle(ctx context.Context, sessionID, method string, _ json.RawMessage) (any, error) {
	h.method = method
	h.sessionID = sessionID
	h.clientID, _ = ClientFromContext(ctx)
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"session": sessionID}, nil
}

type staticResolver struct {
	client string
}

func (r *staticResolver) ResolveClient(_ context.Context, token string) (string, error) {
	if token != "token" {
		return "", ErrUnauthorized
	}
	return r.client, nil
}

// apiError mimics the MCP layer's coded errors.
type apiError struct {
	code string
}

func (e apiError) Error() string             { return e.code }
func (e apiError) CodeValue() string         { return e.code }
func (e apiError) MessageValue() string      { return "msg " + e.code }
func (e apiError) DetailsValue() any         { return nil }
func (e apiError) RecoveryHintValue() string { return "hint" }

func postRPC(t *testing.T, url, body, token string) (*http.Response, Response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Mcp-Session-Id", "sess1")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var out Response
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(&staticResolver{client: "client1"}), nil))
	t.Cleanup(server.Close)

	resp, out := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_board","id":1}`, "token")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, out.Error)
	require.Equal(t, "get_board", handler.method)
	require.Equal(t, "sess1", handler.sessionID)
	require.Equal(t, "client1", handler.clientID)
}

func TestHTTPServer_RPCUnauthorized(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, AuthMiddleware(&staticResolver{client: "client1"}), nil))
	t.Cleanup(server.Close)

	resp, _ := postRPC(t, server.URL, `{"jsonrpc":"2.0","method":"get_board","id":1}`, "wrong")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, handler.method)
}

func TestHTTPServer_RPCErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
		data string
	}{
		{name: "parse", body: `{not json`, code: ErrParseCode},
		{name: "invalid request", body: `{"jsonrpc":"1.0","method":"x"}`, code: ErrInvalidReq},
		{name: "unknown method", body: `{"jsonrpc":"2.0","method":"x","id":1}`, err: apiError{code: "UNKNOWN_METHOD"}, code: ErrMethodNotFound, data: "UNKNOWN_METHOD"},
		{name: "invalid params", body: `{"jsonrpc":"2.0","method":"x","id":1}`, err: apiError{code: "INVALID_PARAMS"}, code: ErrInvalidParams, data: "INVALID_PARAMS"},
		{name: "domain", body: `{"jsonrpc":"2.0","method":"x","id":1}`, err: apiError{code: "TRACKER_NOT_FOUND"}, code: ErrApplication, data: "TRACKER_NOT_FOUND"},
		{name: "internal", body: `{"jsonrpc":"2.0","method":"x","id":1}`, err: errors.New("boom"), code: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(NewServer(&testHandler{err: tt.err}, nil, nil))
			t.Cleanup(server.Close)

			resp, out := postRPC(t, server.URL, tt.body, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.NotNil(t, out.Error)
			require.Equal(t, tt.code, out.Error.Code)
			if tt.data != "" {
				data, ok := out.Error.Data.(map[string]any)
				require.True(t, ok)
				require.Equal(t, tt.data, data["code"])
				require.Equal(t, "hint", data["recovery_hint"])
			}
		})
	}
}

func TestHTTPServer_HealthSkipsAuth(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{}, AuthMiddleware(&staticResolver{client: "c"}), nil))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_Mount(t *testing.T) {
	var sawSession string
	mcp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawSession, _ = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(&testHandler{}, nil, nil, Mount{Pattern: "/mcp", Handler: mcp}))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/mcp", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("Mcp-Session-Id", "abc")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "abc", sawSession)
}
