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

	"github.com/SonakshiKundu06/FloatChat/generator"
)

const (
	defaultLocation = "http://localhost:11434"
	defaultModel    = "mistral"
)

type ollamaGenerator struct {
	options generator.Options
	client  *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	fullPrompt := prompt
	if len(g.options.PromptPrefix) > 0 {
		fullPrompt = g.options.PromptPrefix + "\n" + prompt
	}

	data, err := json.Marshal(generateRequest{
		Model:  g.options.Model,
		Prompt: fullPrompt,
		Stream: false,
	})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.options.Location+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 400 {
		return "", fmt.Errorf("ollama http %d: %s", response.StatusCode, string(payload))
	}

	var rsp generateResponse
	if err := json.Unmarshal(payload, &rsp); err != nil {
		return "", err
	}

	if len(rsp.Response) == 0 {
		return "", errors.New("no response from Ollama")
	}

	return rsp.Response, nil
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = defaultLocation
	}

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	g := &ollamaGenerator{
		options: options,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}

	return g
}
