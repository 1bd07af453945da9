package floatchat

import (
	"context"

	"github.com/SonakshiKundu06/FloatChat/corpus"
	"github.com/SonakshiKundu06/FloatChat/generator"
	"github.com/SonakshiKundu06/FloatChat/internal/service/chat"
	"github.com/SonakshiKundu06/FloatChat/loader"
	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/synthesizer"
)

// FloatChat wires the ingestion and query pipelines over one retrieval index.
// Build it once at startup and share it across requests.
type FloatChat struct {
	decoder   loader.Decoder
	corpus    *corpus.Builder
	retriever retriever.Retriever
	chat      *chat.Service
}

// Ingest loads every measurement file under root (<year>/<file>), builds the
// profile corpus, and indexes it. It returns the number of summary documents
// written.
func (f *FloatChat) Ingest(ctx context.Context, root string) (int, error) {
	records, err := loader.LoadAll(ctx, f.decoder, root)
	if err != nil {
		return 0, err
	}

	return f.corpus.Build(ctx, records)
}

// Ask answers one natural-language question from the indexed corpus.
func (f *FloatChat) Ask(ctx context.Context, question string) (synthesizer.Answer, error) {
	return f.chat.Ask(ctx, question)
}

// Documents reports how many summary documents the index holds.
func (f *FloatChat) Documents(ctx context.Context) (int, error) {
	return f.retriever.Count(ctx)
}

func New(
	decoder loader.Decoder,
	retriever retriever.Retriever,
	generator generator.Generator,
	topK int,
	batchSize int,
) *FloatChat {
	corpus := corpus.New(
		retriever,
		corpus.WithBatchSize(batchSize),
	)

	chat := chat.New(
		retriever,
		synthesizer.New(generator),
		topK,
	)

	return &FloatChat{
		decoder:   decoder,
		corpus:    corpus,
		retriever: retriever,
		chat:      chat,
	}
}
