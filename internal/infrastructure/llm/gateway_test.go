package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	gotCtx  context.Context
	blockOn time.Duration
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.gotCtx = ctx
	if s.blockOn > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.blockOn):
		}
	}
	return s.reply, s.err
}

func TestGatewayFirstProviderWins(t *testing.T) {
	first := &stubProvider{name: "openai", reply: `{"ok": true}`}
	second := &stubProvider{name: "anthropic", reply: `{"ok": false}`}

	gw := NewGateway([]outbound.LLMProvider{first, second}, time.Second, zaptest.NewLogger(t))

	out, err := gw.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(out))
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls, "chain must stop at the first success")
}

func TestGatewayAdvancesOnTransportError(t *testing.T) {
	failing := &stubProvider{name: "openai", err: errors.New("connection refused")}
	backup := &stubProvider{name: "anthropic", reply: `{"day1": []}`}

	gw := NewGateway([]outbound.LLMProvider{failing, backup}, time.Second, zaptest.NewLogger(t))

	out, err := gw.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"day1": []}`, string(out))
	assert.Equal(t, 1, failing.calls, "failed provider gets exactly one attempt")
	assert.Equal(t, 1, backup.calls)
}

func TestGatewayAdvancesOnUnparseableOutput(t *testing.T) {
	chatty := &stubProvider{name: "openai", reply: "Sure! Here is your plan."}
	backup := &stubProvider{name: "gemini", reply: "```json\n{\"day1\": []}\n```"}

	gw := NewGateway([]outbound.LLMProvider{chatty, backup}, time.Second, zaptest.NewLogger(t))

	out, err := gw.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"day1": []}`, string(out))
}

func TestGatewayExhaustion(t *testing.T) {
	a := &stubProvider{name: "openai", err: errors.New("boom")}
	b := &stubProvider{name: "anthropic", reply: "not json"}
	c := &stubProvider{name: "gemini", err: errors.New("quota exceeded")}

	gw := NewGateway([]outbound.LLMProvider{a, b, c}, time.Second, zaptest.NewLogger(t))

	_, err := gw.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProvidersExhausted, apperrors.GetCode(err))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
	assert.Equal(t, 1, c.calls)
}

func TestGatewayEmptyChain(t *testing.T) {
	gw := NewGateway(nil, time.Second, zaptest.NewLogger(t))

	_, err := gw.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeProvidersExhausted, apperrors.GetCode(err))
}

func TestGatewayPerProviderTimeout(t *testing.T) {
	slow := &stubProvider{name: "openai", reply: `{"ok": true}`, blockOn: 200 * time.Millisecond}
	fast := &stubProvider{name: "anthropic", reply: `{"ok": true}`}

	gw := NewGateway([]outbound.LLMProvider{slow, fast}, 20*time.Millisecond, zaptest.NewLogger(t))

	out, err := gw.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(out))
	assert.Equal(t, 1, fast.calls, "timeout on one provider must not abort the chain")
}

func TestGatewayHonorsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &stubProvider{name: "openai", reply: `{"ok": true}`}
	gw := NewGateway([]outbound.LLMProvider{p}, time.Second, zaptest.NewLogger(t))

	_, err := gw.Complete(ctx, "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.calls)
}
