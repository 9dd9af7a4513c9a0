package services

import (
	"context"
	"testing"
	"time"

	"github.com/Biswajit213/gym-management/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGateway_AlwaysApprove(t *testing.T) {
	gw := NewSimulatedGateway(1.0, 0, 42)

	for i := 0; i < 20; i++ {
		token, err := gw.Settle(context.Background(), &models.Payment{ID: "p1", Amount: 10})
		require.NoError(t, err)
		assert.Regexp(t, `^TXN-`, token)
	}
}

func TestSimulatedGateway_AlwaysDecline(t *testing.T) {
	gw := NewSimulatedGateway(0.0, 0, 42)

	for i := 0; i < 20; i++ {
		_, err := gw.Settle(context.Background(), &models.Payment{ID: "p1", Amount: 10})
		var decline *DeclineError
		require.ErrorAs(t, err, &decline)
		assert.NotEmpty(t, decline.Reason)
	}
}

func TestSimulatedGateway_SeedIsDeterministic(t *testing.T) {
	outcomes := func(seed int64) []bool {
		gw := NewSimulatedGateway(0.5, 0, seed)
		results := make([]bool, 50)
		for i := range results {
			_, err := gw.Settle(context.Background(), &models.Payment{ID: "p1", Amount: 10})
			results[i] = err == nil
		}
		return results
	}

	assert.Equal(t, outcomes(7), outcomes(7))
}

func TestSimulatedGateway_OutOfRangeRateFallsBack(t *testing.T) {
	gw := NewSimulatedGateway(1.5, 0, 1)
	assert.Equal(t, 0.90, gw.rate)
}

func TestSimulatedGateway_HonorsContextDuringDelay(t *testing.T) {
	gw := NewSimulatedGateway(1.0, time.Minute, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := gw.Settle(ctx, &models.Payment{ID: "p1", Amount: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
