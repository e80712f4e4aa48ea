package seq_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Muostafa/Chat-app-system-sub001/internal/counter"
	"github.com/Muostafa/Chat-app-system-sub001/internal/seq"
)

func TestCheckHealthyWhenCountersMatch(t *testing.T) {
	scope := "chats:app1"
	durable := newFakeDurable(scope)
	durable.seed(scope, 1, 2)
	counters := counter.NewMemory()
	counters.Set(context.Background(), scope, 2)

	mon := seq.NewMonitor(counters, durable, 10)
	report, err := mon.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seq.StatusHealthy, report.Status)
	require.Len(t, report.Scopes, 1)
	assert.False(t, report.Scopes[0].Drifted)
}

func TestCheckWarnsOnDrift(t *testing.T) {
	scope := "chats:app1"
	durable := newFakeDurable(scope)
	durable.seed(scope, 1, 2, 3)

	mon := seq.NewMonitor(counter.NewMemory(), durable, 10)
	report, err := mon.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seq.StatusWarning, report.Status)
	require.Len(t, report.Scopes, 1)
	assert.True(t, report.Scopes[0].Drifted)
	assert.Equal(t, int64(0), report.Scopes[0].CounterVal)
	assert.Equal(t, int64(3), report.Scopes[0].DurableMax)
}

func TestCheckWarnsOnScopeReadError(t *testing.T) {
	durable := newFakeDurable("chats:a", "chats:b")
	durable.maxErr["chats:a"] = errors.New("read timeout")

	mon := seq.NewMonitor(counter.NewMemory(), durable, 10)
	report, err := mon.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, seq.StatusWarning, report.Status)
}

func TestCheckNeverMutates(t *testing.T) {
	scope := "chats:app1"
	durable := newFakeDurable(scope)
	durable.seed(scope, 1, 2, 3)
	counters := counter.NewMemory()

	mon := seq.NewMonitor(counters, durable, 10)
	for i := 0; i < 5; i++ {
		_, err := mon.Check(context.Background())
		require.NoError(t, err)
	}

	// Drift still present, counter untouched
	_, ok, _ := counters.Get(context.Background(), scope)
	assert.False(t, ok, "check must not create counter records")
	max, _ := durable.MaxNumber(context.Background(), scope)
	assert.Equal(t, int64(3), max)
}
