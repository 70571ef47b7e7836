package groupprovider

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	APIKey string
	Body   string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.EscapedPath(), APIKey: r.Header.Get("X-Api-Key"), Body: string(body)})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL + "/", Session: "default", APIKey: "secret"}, srv.Client())
	return client, &seen
}

func TestAttemptDirectAdd_RequestShape(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"15551234567@c.us":{"code":200}}`))
	})

	result := client.AttemptDirectAdd(context.Background(), "120363@g.us", pid)
	require.True(t, result.Success)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/default/groups/120363@g.us/participants/add", req.Path)
	assert.Equal(t, "secret", req.APIKey)

	var payload map[string][]map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Body), &payload))
	assert.Equal(t, pid, payload["participants"][0]["id"])
}

func TestAttemptDirectAdd_StatusIgnored(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":true}`))
	})
	assert.True(t, client.AttemptDirectAdd(context.Background(), "g", pid).Success)

	failing, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"not an admin"}`))
	})
	result := failing.AttemptDirectAdd(context.Background(), "g", pid)
	assert.False(t, result.Success)
	assert.Equal(t, "not an admin", result.Reason)
}

func TestAttemptDirectAdd_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(Config{BaseURL: srv.URL, Session: "default", APIKey: "k"}, nil)
	srv.Close()

	result := client.AttemptDirectAdd(context.Background(), "g", pid)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Reason)
}

func TestFetchInviteLink(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"https://chat.whatsapp.com/ABC123"`))
	})

	link, err := client.FetchInviteLink(context.Background(), "120363@g.us")
	require.NoError(t, err)
	assert.Equal(t, "https://chat.whatsapp.com/ABC123", link)
	assert.Equal(t, http.MethodGet, (*seen)[0].Method)
	assert.Equal(t, "/api/default/groups/120363@g.us/invite-code", (*seen)[0].Path)
}

func TestFetchInviteLink_Failures(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"inviteCode":"NOPE"}`))
	})
	_, err := client.FetchInviteLink(context.Background(), "g")
	require.Error(t, err)
	assert.Equal(t, "invite code request failed with status 403", err.Error())

	empty, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	_, err = empty.FetchInviteLink(context.Background(), "g")
	assert.ErrorIs(t, err, ErrInviteCodeMissing)
}

func TestListGroups(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"1@g.us","subject":"Go"}]`))
	})

	raw, err := client.ListGroups(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1@g.us","subject":"Go"}]`, string(raw))
	assert.Equal(t, "/api/default/groups", (*seen)[0].Path)

	broken, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = broken.ListGroups(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "502"))
}

func TestBreakerOpensAfterConsecutiveTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(Config{BaseURL: srv.URL, Session: "default", APIKey: "k"}, nil)
	srv.Close()

	for i := 0; i < 5; i++ {
		_, err := client.ListGroups(context.Background())
		require.Error(t, err)
	}

	_, err := client.ListGroups(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group provider unavailable")
}

func TestBreakerIgnoresServerErrorStatuses(t *testing.T) {
	client, seen := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"15551234567@c.us":{"code":200}}`))
	})

	for i := 0; i < 7; i++ {
		result := client.AttemptDirectAdd(context.Background(), "120363@g.us", pid)
		require.True(t, result.Success, "attempt %d: %s", i+1, result.Reason)
	}
	assert.Len(t, *seen, 7)
}
