package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SonakshiKundu06/FloatChat/embedder"
)

func TestEmbed(t *testing.T) {
	var gotPath string
	var gotReq embedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewEmbedder(
		embedder.WithLocation(srv.URL),
		embedder.WithModel("nomic-embed-text"),
	)

	vec, err := e.Embed(context.Background(), "warm gulf profile")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "/api/embeddings", gotPath)
	assert.Equal(t, "nomic-embed-text", gotReq.Model)
	assert.Equal(t, "warm gulf profile", gotReq.Prompt)
}

func TestEmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewEmbedder(embedder.WithLocation(srv.URL))

	_, err := e.Embed(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestEmbedEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{})
	}))
	defer srv.Close()

	e := NewEmbedder(embedder.WithLocation(srv.URL))

	_, err := e.Embed(context.Background(), "anything")
	require.Error(t, err)
}
