// Package recall indexes revision conversations in a vector store and
// retrieves the turns relevant to a new request. It exists so revision
// prompts can reference what the user asked days ago without shipping the
// whole chat history to the model.
package recall

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	defaultEmbeddingModel = "text-embedding-004"

	// EmbeddingDimensions is fixed by the embedding model and must match
	// the vector index configuration
	EmbeddingDimensions = 768
)

// Embedder generates dense vectors for chat turns using the Gemini
// embedding API
type Embedder struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewEmbedder creates an embedder on the genai SDK
func NewEmbedder(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Embedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if model == "" {
		model = defaultEmbeddingModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Embedder{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Embed vectorizes a single text. Stored turns and search queries share one
// task type so their vectors live in the same space.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx,
		e.model,
		contents,
		&genai.EmbedContentConfig{
			TaskType: "RETRIEVAL_DOCUMENT",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return result.Embeddings[0].Values, nil
}
