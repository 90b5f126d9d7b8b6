package places

import (
	"context"
	stderrors "errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mehrdadh/hangout_bot/pkg/errors"
	"github.com/mehrdadh/hangout_bot/pkg/geo"
	"github.com/mehrdadh/hangout_bot/pkg/logger"
)

// BreakerClient wraps a Searcher with a circuit breaker so a flapping
// search API stops eating the full request timeout on every round close.
type BreakerClient struct {
	inner Searcher
	cb    *gobreaker.CircuitBreaker[[]Place]
}

func NewBreakerClient(inner Searcher) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[[]Place](gobreaker.Settings{
		Name:        "place-search",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		// Open after 60% failures once there is enough signal
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Place search circuit state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &BreakerClient{inner: inner, cb: cb}
}

func (b *BreakerClient) Search(ctx context.Context, center geo.Point, radiusKm float64, categoryHints []string) ([]Place, error) {
	result, err := b.cb.Execute(func() ([]Place, error) {
		return b.inner.Search(ctx, center, radiusKm, categoryHints)
	})

	if err != nil {
		if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errors.Wrap(err, errors.ErrCodeUpstreamUnavailable, "place search circuit open")
		}
		return nil, err
	}

	return result, nil
}
