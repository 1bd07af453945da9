package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SonakshiKundu06/FloatChat/embedder"
)

const (
	defaultLocation = "http://localhost:11434"
	defaultModel    = "nomic-embed-text"
)

type ollamaEmbedder struct {
	options embedder.Options
	client  *http.Client
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	data, err := json.Marshal(embedRequest{
		Model:  e.options.Model,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, e.options.Location+"/api/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := e.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode >= 400 {
		return nil, fmt.Errorf("ollama http %d: %s", response.StatusCode, string(payload))
	}

	var rsp embedResponse
	if err := json.Unmarshal(payload, &rsp); err != nil {
		return nil, err
	}

	if len(rsp.Embedding) == 0 {
		return nil, errors.New("no response from Ollama")
	}

	return rsp.Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	e := &ollamaEmbedder{
		options: options,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	return e
}
