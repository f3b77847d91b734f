package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type resolverStub map[string]string

func (r resolverStub) ResolveClient(_ context.Context, token string) (string, error) {
	if id, ok := r[token]; ok {
		return id, nil
	}
	return "", errors.New("unknown key")
}

func requestWithHeader(h http.Header) *sdkmcp.CallToolRequest {
	return &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "list_trackers"},
		Extra:  &sdkmcp.RequestExtra{Header: h},
	}
}

func TestAPIKey(t *testing.T) {
	require.Equal(t, "abc", apiKey(http.Header{"Authorization": {"Bearer abc"}}))
	require.Equal(t, "abc", apiKey(http.Header{"Authorization": {"BEARER   abc"}}))
	require.Equal(t, "abc", apiKey(http.Header{"X-Api-Key": {"abc"}}))
	require.Empty(t, apiKey(http.Header{"Authorization": {"Basic abc"}}))
	require.Empty(t, apiKey(http.Header{}))
}

func TestAuthMiddleware(t *testing.T) {
	var gotClient string
	next := func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		gotClient = getClientID(ctx)
		return &sdkmcp.CallToolResult{}, nil
	}
	handler := authMiddleware(resolverStub{"good": "client-1"})(next)

	_, err := handler(context.Background(), "tools/call", requestWithHeader(http.Header{"Authorization": {"Bearer good"}}))
	require.NoError(t, err)
	require.Equal(t, "client-1", gotClient)

	gotClient = ""
	_, err = handler(context.Background(), "tools/call", requestWithHeader(http.Header{"Authorization": {"Bearer bad"}}))
	require.ErrorContains(t, err, "unauthorized")
	require.Empty(t, gotClient)

	_, err = handler(context.Background(), "tools/call", requestWithHeader(http.Header{}))
	require.ErrorContains(t, err, "missing api key")

	_, err = handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{}})
	require.ErrorContains(t, err, "missing headers")

	// Handshake passes through without credentials.
	_, err = handler(context.Background(), "initialize", &sdkmcp.InitializeRequest{Params: &sdkmcp.InitializeParams{}})
	require.NoError(t, err)
}

func TestNoAuthMiddleware(t *testing.T) {
	var gotClient string
	handler := noAuthMiddleware(LocalClientID)(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		gotClient = getClientID(ctx)
		return &sdkmcp.CallToolResult{}, nil
	})

	_, err := handler(context.Background(), "tools/call", requestWithHeader(nil))
	require.NoError(t, err)
	require.Equal(t, LocalClientID, gotClient)
}

func TestSessionMiddleware(t *testing.T) {
	var gotSession string
	handler := sessionMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		gotSession = getSessionID(ctx)
		return &sdkmcp.CallToolResult{}, nil
	})

	_, err := handler(context.Background(), "tools/call", requestWithHeader(http.Header{"Mcp-Session-Id": {"http-1"}}))
	require.NoError(t, err)
	require.Equal(t, "http-1", gotSession)

	req := &sdkmcp.CallToolRequest{Params: &sdkmcp.CallToolParamsRaw{
		Name: "list_trackers",
		Meta: sdkmcp.Meta{"session_id": "stdio-1"},
	}}
	_, err = handler(context.Background(), "tools/call", req)
	require.NoError(t, err)
	require.Equal(t, "stdio-1", gotSession)

	gotSession = "unset"
	_, err = handler(context.Background(), "tools/call", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
	require.Empty(t, gotSession)
}
