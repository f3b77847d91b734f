// Package testserver runs the full HTTP stack against an in-memory database.
package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/streaks/internal/app"
	"github.com/rpggio/streaks/internal/calendar"
	"github.com/rpggio/streaks/internal/mcp"
	"github.com/rpggio/streaks/internal/sqlite"
	"github.com/rpggio/streaks/internal/transport"
	"github.com/stretchr/testify/require"
)

// DefaultNow is the fixed clock reading used by New: Wednesday 2024-03-06.
var DefaultNow = time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	App      *app.App
	Token    string
	ClientID string
}

// New starts an authenticated server whose clock is DefaultNow in UTC.
func New(t *testing.T, token, clientID string) *TestServer {
	t.Helper()
	return NewWithClock(t, token, clientID, calendar.FixedClock(DefaultNow))
}

// NewWithClock is New with an explicit clock.
func NewWithClock(t *testing.T, token, clientID string, clock calendar.Clock) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	a := app.New(db, app.Options{Location: time.UTC, Clock: clock})

	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       a.Handler,
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	router := transport.NewServer(a.Handler, transport.AuthMiddleware(a.APIKeys), nil,
		transport.Mount{Pattern: "/mcp", Handler: mcpHandler},
	)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		App:      a,
		Token:    token,
		ClientID: clientID,
	}

	require.NoError(t, ts.AddAPIKey(token, clientID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, clientID string) error {
	return ts.App.APIKeys.Add(context.Background(), token, clientID, "test")
}

// Connect opens an MCP client session over streamable HTTP.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: ts.Token}},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
}

func (b bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return http.DefaultTransport.RoundTrip(req)
}
