package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"

	"github.com/google/uuid"
)

// Gateway is the seam where a real settlement integration would be
// substituted. Settle returns exactly one of a transaction token or an
// error; declines come back as *DeclineError, everything else is
// infrastructure. The caller imposes the time budget through ctx.
type Gateway interface {
	Settle(ctx context.Context, payment *models.Payment) (string, error)
}

var declineReasons = []string{
	"insufficient funds",
	"declined by issuer",
	"suspected fraud hold",
	"processor unavailable",
}

// SimulatedGateway approves payments with a fixed probability. The rate and
// latency are tunable from config; tests pass a seeded source for
// deterministic outcomes.
type SimulatedGateway struct {
	rate  float64
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedGateway(rate float64, delay time.Duration, seed int64) *SimulatedGateway {
	if rate < 0 || rate > 1 {
		rate = 0.90
	}
	return &SimulatedGateway{
		rate:  rate,
		delay: delay,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (g *SimulatedGateway) Settle(ctx context.Context, payment *models.Payment) (string, error) {
	if g.delay > 0 {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("settlement timed out: %w", ctx.Err())
		case <-time.After(g.delay):
		}
	} else if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("settlement timed out: %w", err)
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	pick := g.rng.Intn(len(declineReasons))
	g.mu.Unlock()

	if roll < g.rate {
		return fmt.Sprintf("TXN-%s", uuid.New().String()), nil
	}
	return "", &DeclineError{Reason: declineReasons[pick]}
}
