package recall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PineconeIndex implements the VectorIndex interface against the Pinecone
// data-plane REST API. Vectors are partitioned per user: the namespace is
// the user id, so one user's turns can never match another's query.
type PineconeIndex struct {
	host   string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// NewPineconeIndex creates a client for one Pinecone index. Host is the
// index endpoint from the Pinecone console, without a scheme.
func NewPineconeIndex(host, apiKey string, logger *zap.Logger) (*PineconeIndex, error) {
	if host == "" {
		return nil, fmt.Errorf("pinecone index host is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("pinecone API key is required")
	}
	return &PineconeIndex{
		host:   host,
		apiKey: apiKey,
		client: &http.Client{},
		logger: logger,
	}, nil
}

type vectorMetadata struct {
	CreationDate string `json:"creationDate"`
	Query        string `json:"query"`
	Day          string `json:"day"`
}

type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace"`
}

type upsertVector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata vectorMetadata `json:"metadata"`
}

type queryRequest struct {
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	IncludeMetadata bool           `json:"includeMetadata"`
	Namespace       string         `json:"namespace"`
	Filter          map[string]any `json:"filter"`
}

type queryResponse struct {
	Matches []queryMatch `json:"matches"`
}

type queryMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata vectorMetadata `json:"metadata"`
}

// Upsert writes one embedded chat turn. The vector id is the chat message
// id so matches can be ordered chronologically later.
func (p *PineconeIndex) Upsert(ctx context.Context, record outbound.VectorRecord) error {
	if len(record.Vector) != EmbeddingDimensions {
		return fmt.Errorf("vector has %d dimensions, index expects %d", len(record.Vector), EmbeddingDimensions)
	}

	body := upsertRequest{
		Vectors: []upsertVector{{
			ID:     strconv.FormatInt(record.MessageID, 10),
			Values: record.Vector,
			Metadata: vectorMetadata{
				CreationDate: record.CreationDate,
				Query:        record.Query,
				Day:          strconv.Itoa(record.Day),
			},
		}},
		Namespace: record.UserID.String(),
	}

	if err := p.post(ctx, "/vectors/upsert", body, nil); err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}

	p.logger.Debug("upserted chat turn vector",
		zap.Int64("message_id", record.MessageID),
		zap.Int("day", record.Day),
	)
	return nil
}

// Query searches the user's namespace for turns about the same day
func (p *PineconeIndex) Query(ctx context.Context, vector []float32, userID uuid.UUID, day, topK int) ([]outbound.VectorMatch, error) {
	body := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       userID.String(),
		Filter: map[string]any{
			"day": map[string]any{"$eq": strconv.Itoa(day)},
		},
	}

	var resp queryResponse
	if err := p.post(ctx, "/query", body, &resp); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	matches := make([]outbound.VectorMatch, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		id, err := strconv.ParseInt(m.ID, 10, 64)
		if err != nil {
			p.logger.Warn("skipping match with non-numeric id", zap.String("id", m.ID))
			continue
		}
		matchDay, _ := strconv.Atoi(m.Metadata.Day)
		matches = append(matches, outbound.VectorMatch{
			MessageID: id,
			Score:     m.Score,
			Query:     m.Metadata.Query,
			Day:       matchDay,
		})
	}
	return matches, nil
}

func (p *PineconeIndex) post(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+p.host+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}
