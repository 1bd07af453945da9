package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/synthesizer"
)

type fakeRetriever struct {
	results []retriever.Result
	err     error
	limit   int
}

func (r *fakeRetriever) Index(ctx context.Context, docs []retriever.Document) error {
	return nil
}

func (r *fakeRetriever) Search(ctx context.Context, query string, opts ...retriever.SearchOption) ([]retriever.Result, error) {
	r.limit = retriever.NewSearchOptions(opts...).Limit
	if r.err != nil {
		return nil, r.err
	}
	return r.results, nil
}

func (r *fakeRetriever) Count(ctx context.Context) (int, error) {
	return len(r.results), nil
}

type fakeGenerator struct {
	reply string
}

func (g *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	return g.reply, nil
}

func TestAskHappyPath(t *testing.T) {
	ret := &fakeRetriever{results: []retriever.Result{
		{
			Document: retriever.Document{
				Id:       "0042682_1_0",
				Content:  "On 2016-02-08, float 0042682 recorded 72 depth levels.",
				Metadata: map[string]any{"year": 2016},
			},
			Score: 0.8,
		},
	}}
	gen := &fakeGenerator{reply: "{\"latitude\": 24.6, \"longitude\": -81.8, \"year\": 2016, \"answer\": \"Warm surface water.\"}"}

	svc := New(ret, synthesizer.New(gen), 3)

	answer, err := svc.Ask(context.Background(), "how warm was it?")
	require.NoError(t, err)

	assert.Equal(t, "Warm surface water.", answer.Answer)
	assert.Equal(t, 3, ret.limit)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, 2016, answer.Sources[0]["year"])
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	svc := New(&fakeRetriever{}, synthesizer.New(&fakeGenerator{reply: "ok"}), 5)

	_, err := svc.Ask(context.Background(), "   ")
	require.Error(t, err)
	assert.Equal(t, "query is required", err.Error())
}

func TestAskRetrievalError(t *testing.T) {
	ret := &fakeRetriever{err: errors.New("store offline")}
	svc := New(ret, synthesizer.New(&fakeGenerator{reply: "ok"}), 5)

	_, err := svc.Ask(context.Background(), "how warm was it?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retrieval error")
}

func TestNewDefaultsTopK(t *testing.T) {
	ret := &fakeRetriever{}
	svc := New(ret, synthesizer.New(&fakeGenerator{reply: "ok"}), 0)

	_, err := svc.Ask(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, 5, ret.limit)
}
