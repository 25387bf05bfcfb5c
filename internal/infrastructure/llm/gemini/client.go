// Package gemini provides the Google Gemini adapter on the genai SDK
package gemini

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Config holds the provider settings resolved from application config
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// Client implements the LLMProvider interface using the genai SDK
type Client struct {
	cfg    Config
	client *genai.Client
	logger *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// Name identifies this provider in the fail-over chain
func (c *Client) Name() string { return "gemini" }

// Complete sends the prompt and returns the concatenated text of the reply
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(c.cfg.Temperature)
	result, err := c.client.Models.GenerateContent(ctx,
		c.cfg.Model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: &temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("genai generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("empty reply from model")
	}

	c.logger.Debug("gemini completion succeeded",
		zap.String("model", c.cfg.Model),
	)

	return text, nil
}
