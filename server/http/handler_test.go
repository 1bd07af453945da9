package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SonakshiKundu06/FloatChat/internal/service/chat"
	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/synthesizer"
)

type stubRetriever struct {
	results []retriever.Result
	err     error
}

func (r *stubRetriever) Index(ctx context.Context, docs []retriever.Document) error {
	return nil
}

func (r *stubRetriever) Search(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Result, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.results, nil
}

func (r *stubRetriever) Count(ctx context.Context) (int, error) {
	return len(r.results), nil
}

type stubGenerator struct {
	reply string
}

func (g *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.reply, nil
}

func newTestHandler(t *testing.T, ret retriever.Retriever, reply string) http.Handler {
	t.Helper()

	service := chat.New(ret, synthesizer.New(&stubGenerator{reply: reply}), 5)

	srv, ok := NewServer(service, WithMiddleware(CORS)).(*httpServer)
	require.True(t, ok)

	return srv.server.Handler
}

func resultsFixture() []retriever.Result {
	return []retriever.Result{
		{
			Document: retriever.Document{
				Id:       "0042682_1_0",
				Content:  "On 2016-02-08, float 0042682 recorded 72 depth levels.",
				Metadata: map[string]any{"year": float64(2016), "file": "2016/D0042682_001.nc"},
			},
			Score: 0.87,
		},
	}
}

func TestChatEndpoint(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{results: resultsFixture()},
		"{\"latitude\": 24.6, \"longitude\": -81.8, \"year\": 2016, \"answer\": \"Warm surface water near Florida.\"}")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query": "how warm was it in 2016?"}`))

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body struct {
		Answer  string           `json:"answer"`
		Sources []map[string]any `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "Warm surface water near Florida.", body.Answer)
	require.Len(t, body.Sources, 1)
	assert.Equal(t, "2016/D0042682_001.nc", body.Sources[0]["file"])
}

func TestChatInvalidBody(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{}, "ok")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{not json"))

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid request body", body.Error)
}

func TestChatEmptyQuery(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{}, "ok")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query": "   "}`))

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "query is required", body.Error)
}

func TestChatDownstreamFailure(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{err: errors.New("store offline")}, "ok")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query": "how warm?"}`))

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "service unavailable", body.Error)
}

func TestChatPreflight(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{}, "ok")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestChatEmptySourcesSerializedAsArray(t *testing.T) {
	handler := newTestHandler(t, &stubRetriever{}, "The index is empty, no profiles matched.")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"query": "anything indexed?"}`))

	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sources":[]`)
}
