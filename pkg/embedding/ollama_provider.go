package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type OllamaProvider struct {
	BaseURL   string
	ModelName string
	Client    *http.Client
}

func NewOllamaProvider(baseURL, modelName string) EmbeddingProvider {
	if modelName == "" {
		modelName = "nomic-embed-text"
	}
	return &OllamaProvider{
		BaseURL:   baseURL,
		ModelName: modelName,
		Client:    &http.Client{Timeout: 60 * time.Second},
	}
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (p *OllamaProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	// Ollama has no task-type concept; the parameter is ignored here.
	reqBody := ollamaEmbedRequest{
		Model:  p.ModelName,
		Prompt: text,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/embeddings", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama embedding returned status %d: %s", res.StatusCode, string(body))
	}

	var embedRes ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedRes); err != nil {
		return nil, fmt.Errorf("failed to decode ollama embedding response: %w", err)
	}

	if len(embedRes.Embedding) == 0 {
		return nil, fmt.Errorf("ollama embedding response contained no values")
	}

	return &EmbeddingResponse{Values: embedRes.Embedding}, nil
}
