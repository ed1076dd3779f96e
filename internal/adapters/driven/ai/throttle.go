package ai

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/sommelier/internal/core/ports/driven"
)

// Ensure Throttle implements the interface.
var _ driven.EmbeddingService = (*Throttle)(nil)

// Throttle limits the request rate of an embedding service. Each Embed or
// EmbedBatch call is one request and takes one token; Ping is not limited.
type Throttle struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// NewThrottle wraps svc with a token bucket of requestsPerSecond.
// The burst is the per-second rate rounded up, so short bursts of
// concurrent ingest workers are not serialised.
func NewThrottle(svc driven.EmbeddingService, requestsPerSecond float64) *Throttle {
	burst := max(1, int(math.Ceil(requestsPerSecond)))
	return &Throttle{
		EmbeddingService: svc,
		limiter:          rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Embed waits for a token, then embeds text.
func (t *Throttle) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}
	return t.EmbeddingService.Embed(ctx, text)
}

// EmbedBatch waits for a token, then embeds texts.
func (t *Throttle) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}
	return t.EmbeddingService.EmbedBatch(ctx, texts)
}
