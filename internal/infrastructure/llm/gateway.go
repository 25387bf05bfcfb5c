package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"go.uber.org/zap"
)

// Gateway walks an ordered provider chain until one returns parseable JSON.
// Each provider gets exactly one attempt per call; a transport error, a
// timeout and an unparseable reply are all treated as the same kind of
// failure and advance the chain. The chain order is fixed configuration and
// never reordered at runtime.
type Gateway struct {
	providers []outbound.LLMProvider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewGateway creates a gateway over the given provider chain. The timeout
// applies per provider attempt, not to the whole call.
func NewGateway(providers []outbound.LLMProvider, timeout time.Duration, logger *zap.Logger) *Gateway {
	return &Gateway{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Complete sends the prompt down the chain and returns the first normalized
// JSON reply. When every provider fails the caller gets a single exhaustion
// error; per-provider causes are logged, not returned.
func (g *Gateway) Complete(ctx context.Context, prompt string) (json.RawMessage, error) {
	if len(g.providers) == 0 {
		return nil, apperrors.NewProvidersExhaustedError(0)
	}

	for _, provider := range g.providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reply, err := g.attempt(ctx, provider, prompt)
		if err != nil {
			g.logger.Warn("provider attempt failed, advancing chain",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			continue
		}

		normalized, ok := Normalize(reply)
		if !ok {
			g.logger.Warn("provider returned unparseable output, advancing chain",
				zap.String("provider", provider.Name()),
				zap.Int("reply_length", len(reply)),
			)
			continue
		}

		g.logger.Debug("provider attempt succeeded",
			zap.String("provider", provider.Name()),
		)
		return normalized, nil
	}

	return nil, apperrors.NewProvidersExhaustedError(len(g.providers))
}

func (g *Gateway) attempt(ctx context.Context, provider outbound.LLMProvider, prompt string) (string, error) {
	attemptCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return provider.Complete(attemptCtx, prompt)
}
