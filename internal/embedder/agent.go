package embedder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	agtconfig "github.com/JaimeStill/go-agents/pkg/config"
)

type embedFunc func(ctx context.Context, input string) (any, error)

// Agent embeds file contents through a go-agents agent, which can target any
// provider the library supports.
type Agent struct {
	embed      embedFunc
	dimensions int
	timeout    time.Duration
}

// NewAgent builds a go-agents agent from raw, merged over the library's
// default agent configuration.
func NewAgent(raw map[string]any, dimensions int, timeout time.Duration) (*Agent, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode agent config: %w", err)
	}

	cfg := agtconfig.DefaultAgentConfig()

	var userCfg agtconfig.AgentConfig
	if err := json.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("invalid agent config: %w", err)
	}

	cfg.Merge(&userCfg)

	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return &Agent{
		embed: func(ctx context.Context, input string) (any, error) {
			return a.Embed(ctx, input)
		},
		dimensions: dimensions,
		timeout:    timeout,
	}, nil
}

func (a *Agent) Embed(ctx context.Context, data []byte) ([]float32, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	resp, err := a.embed(ctx, string(data))
	if err != nil {
		return nil, fmt.Errorf("agent embed: %w", err)
	}

	vec, err := firstEmbedding(resp)
	if err != nil {
		return nil, err
	}

	if len(vec) != a.dimensions {
		return nil, fmt.Errorf("agent returned %d dimensions, want %d", len(vec), a.dimensions)
	}
	return vec, nil
}

func (a *Agent) Dimensions() int {
	return a.dimensions
}

// embeddingsBody is the OpenAI-style embeddings payload shared by the
// go-agents providers.
type embeddingsBody struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func firstEmbedding(resp any) ([]float32, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode embeddings response: %w", err)
	}

	var body embeddingsBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}

	if len(body.Data) == 0 || len(body.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("agent returned no embeddings")
	}
	return body.Data[0].Embedding, nil
}
