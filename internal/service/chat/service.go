package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SonakshiKundu06/FloatChat/retriever"
	"github.com/SonakshiKundu06/FloatChat/synthesizer"
)

// Service answers one question per call. It keeps no per-request state; the
// retriever and synthesizer are shared across concurrent requests and are
// only read on the query path.
type Service struct {
	retriever   retriever.Retriever
	synthesizer *synthesizer.Synthesizer
	topK        int
}

func (s *Service) Ask(ctx context.Context, question string) (synthesizer.Answer, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return synthesizer.Answer{}, errors.New("query is required")
	}

	results, err := s.retriever.Search(
		ctx,
		question,
		retriever.WithSearchLimit(s.topK),
	)
	if err != nil {
		return synthesizer.Answer{}, fmt.Errorf("retrieval error: %w", err)
	}

	return s.synthesizer.Synthesize(ctx, question, results)
}

func New(
	retriever retriever.Retriever,
	synthesizer *synthesizer.Synthesizer,
	topK int,
) *Service {
	if retriever == nil {
		panic("retriever is required")
	}

	if synthesizer == nil {
		panic("synthesizer is required")
	}

	if topK <= 0 {
		topK = 5
	}

	return &Service{
		retriever:   retriever,
		synthesizer: synthesizer,
		topK:        topK,
	}
}
