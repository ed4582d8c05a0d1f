package embedder

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// Ollama embeds file contents with a model served by an Ollama instance.
// File bytes are sent to the model as text input.
type Ollama struct {
	client     *ollama.Client
	model      string
	dimensions int
}

// NewOllama creates an embedder for model at baseURL. Vectors returned by the
// model must have exactly dimensions elements.
func NewOllama(model, baseURL string, dimensions int, timeout time.Duration) (*Ollama, error) {
	if model == "" {
		return nil, fmt.Errorf("ollama model required")
	}
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{Timeout: timeout}

	return &Ollama{
		client:     ollama.NewClient(parsed, hc),
		model:      model,
		dimensions: dimensions,
	}, nil
}

func (o *Ollama) Embed(ctx context.Context, data []byte) ([]float32, error) {
	resp, err := o.client.Embed(ctx, &ollama.EmbedRequest{
		Model: o.model,
		Input: string(data),
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}

	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama returned no embeddings")
	}

	vec := resp.Embeddings[0]
	if len(vec) != o.dimensions {
		return nil, fmt.Errorf("ollama model %s returned %d dimensions, want %d", o.model, len(vec), o.dimensions)
	}

	return vec, nil
}

func (o *Ollama) Dimensions() int {
	return o.dimensions
}
