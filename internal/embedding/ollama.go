package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultOllamaHost is the default Ollama API endpoint.
	DefaultOllamaHost = "http://localhost:11434"
	// DefaultOllamaModel is the default embedding model requested.
	DefaultOllamaModel = "nomic-embed-text"
	// DefaultTimeout bounds a single embedding request.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxRetries is how many times a failed request is retried.
	DefaultMaxRetries = 3
)

// OllamaConfig configures OllamaEmbedder.
type OllamaConfig struct {
	Host       string
	Model      string
	Dimensions int // expected embedding width; validated against the server's response
	Timeout    time.Duration
	MaxRetries int
}

// OllamaEmbedder generates embeddings via Ollama's HTTP embeddings API
// (spec section 6's "embedding model" external collaborator, one
// concrete, network-backed implementation of it).
type OllamaEmbedder struct {
	client *http.Client
	cfg    OllamaConfig
	logger *slog.Logger
}

var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder constructs an OllamaEmbedder, applying defaults for
// any zero-valued config fields.
func NewOllamaEmbedder(cfg OllamaConfig, logger *slog.Logger) *OllamaEmbedder {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OllamaEmbedder{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger,
	}
}

type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type ollamaEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// EmbedQuery implements Embedder.
func (e *OllamaEmbedder) EmbedQuery(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			e.logger.Warn("retrying ollama embed request", slog.Int("attempt", attempt), slog.String("error", lastErr.Error()))
		}
		vec, err := e.embedOnce(ctx, text)
		if err == nil {
			return Normalize(vec), nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("ollama embed query: %w", lastErr)
}

// EmbedTexts implements Embedder. Ollama's embeddings endpoint embeds
// one string per request; texts are embedded sequentially, preserving
// order.
func (e *OllamaEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("ollama embed texts[%d]: %w", i, err)
		}
		out[i] = vec
	}
	return out, nil
}

// Dimensions implements Embedder.
func (e *OllamaEmbedder) Dimensions() int { return e.cfg.Dimensions }

func (e *OllamaEmbedder) embedOnce(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: e.cfg.Model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed ollamaEmbedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("ollama returned an empty embedding")
	}
	if e.cfg.Dimensions > 0 && len(parsed.Embedding) != e.cfg.Dimensions {
		return nil, fmt.Errorf("ollama returned a %d-dimension embedding, expected %d", len(parsed.Embedding), e.cfg.Dimensions)
	}
	return parsed.Embedding, nil
}
