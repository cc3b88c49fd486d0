package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/notecall/core"
)

func newTestClient(t *testing.T, handler http.Handler) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := newClient(server.URL+"/api/", 5*time.Second)
	require.NoError(t, err)
	return server, client
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("   ", time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestGetJSON(t *testing.T) {
	_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sources", r.URL.Path)
		assert.Equal(t, "nb_1", r.URL.Query().Get("notebook_id"))
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))

	var out map[string]any
	query := url.Values{"notebook_id": []string{"nb_1"}}
	err := client.GetJSON(context.Background(), "/sources", query, &out)
	require.NoError(t, err)
	assert.Contains(t, out, "results")
}

func TestPostJSON(t *testing.T) {
	_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "what is this?", body["question"])
		json.NewEncoder(w).Encode(map[string]any{"answer": "a document"})
	}))

	var out map[string]any
	err := client.PostJSON(context.Background(), "/search/ask/simple",
		map[string]any{"question": "what is this?"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "a document", out["answer"])
}

func TestPostJSON_BackendError(t *testing.T) {
	t.Run("structured error body", func(t *testing.T) {
		_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]any{"error": "unsupported file type"})
		}))

		err := client.PostJSON(context.Background(), "/sources", map[string]any{}, nil)
		require.Error(t, err)

		var backendErr *core.BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, http.StatusUnprocessableEntity, backendErr.StatusCode)
		assert.Equal(t, "unsupported file type", backendErr.Message)
	})

	t.Run("plain text body", func(t *testing.T) {
		_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}))

		err := client.PostJSON(context.Background(), "/sources", map[string]any{}, nil)

		var backendErr *core.BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
		assert.Equal(t, "internal server error", backendErr.Message)
	})
}

func TestGetJSON_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := newClient(server.URL, time.Second)
	require.NoError(t, err)
	server.Close() // connection refused from here on

	getErr := client.GetJSON(context.Background(), "/sources", nil, nil)
	require.Error(t, getErr)

	var transportErr *core.TransportError
	require.ErrorAs(t, getErr, &transportErr)
	assert.Equal(t, "GET /sources", transportErr.Op)
}

func TestPostMultipart(t *testing.T) {
	_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "upload", r.FormValue("type"))
		assert.Equal(t, "sample.pdf", r.FormValue("title"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "sample.pdf", header.Filename)

		contents, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7 fake", string(contents))

		json.NewEncoder(w).Encode(map[string]any{"id": "src_1", "status": "running"})
	}))

	var out map[string]any
	err := client.PostMultipart(context.Background(), "/sources",
		map[string]string{"type": "upload", "title": "sample.pdf"},
		"file", "sample.pdf", strings.NewReader("%PDF-1.7 fake"), &out)
	require.NoError(t, err)
	assert.Equal(t, "src_1", out["id"])
}

func TestPostStream(t *testing.T) {
	t.Run("returns body for streaming", func(t *testing.T) {
		_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
			io.WriteString(w, "data: {\"type\":\"ai_message\",\"content\":\"hello\"}\n\n")
		}))

		body, err := client.PostStream(context.Background(), "/sources/src_1/chat/sessions/sess_1/messages",
			map[string]any{"message": "hi"})
		require.NoError(t, err)
		defer body.Close()

		raw, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "ai_message")
	})

	t.Run("non-2xx becomes backend error", func(t *testing.T) {
		_, client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"detail": "session not found"})
		}))

		_, err := client.PostStream(context.Background(), "/sources/src_1/chat/sessions/missing/messages", nil)
		require.Error(t, err)

		var backendErr *core.BackendError
		require.ErrorAs(t, err, &backendErr)
		assert.Equal(t, "session not found", backendErr.Message)
	})
}
