package middleware_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erents/internal/app/commands"
	"erents/internal/app/middleware"
	"erents/internal/app/uow"
	"erents/internal/infra/storage/memory"
)

type echoCommand struct {
	IdKey string
	Value string
}

func (c echoCommand) Key() string { return "test.echo" }
func (c echoCommand) IdempotencyKey() string { return c.IdKey }
func (c echoCommand) ResultPrototype() any   { return &echoResult{} }

type echoResult struct {
	Value string `json:"value"`
	Calls int    `json:"calls"`
}

func echoBus(t *testing.T, calls *int, fail error) *commands.InMemoryBus {
	t.Helper()
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, "test.echo", commands.HandlerFunc[echoCommand, *echoResult](
		func(ctx context.Context, cmd echoCommand) (*echoResult, error) {
			*calls++
			if fail != nil {
				return nil, fail
			}
			return &echoResult{Value: cmd.Value, Calls: *calls}, nil
		}))
	return bus
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	ctx := context.Background()
	calls := 0
	store := memory.NewIdempotencyStore(time.Hour)
	bus := middleware.ChainCommands(echoBus(t, &calls, nil), middleware.Idempotency(store, nil))

	first, err := commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{IdKey: "k-1", Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Calls)

	replay, err := commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{IdKey: "k-1", Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "handler must not run again for a repeated key")
	assert.Equal(t, first.Value, replay.Value)

	fresh, err := commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{IdKey: "k-2", Value: "other"})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Calls)
}

func TestIdempotencyReplaysFailure(t *testing.T) {
	ctx := context.Background()
	calls := 0
	store := memory.NewIdempotencyStore(time.Hour)
	bus := middleware.ChainCommands(echoBus(t, &calls, errors.New("boom")), middleware.Idempotency(store, nil))

	_, err := commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{IdKey: "k-1"})
	require.EqualError(t, err, "boom")

	_, err = commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{IdKey: "k-1"})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls)
}

func TestIdempotencySkipsBlankKey(t *testing.T) {
	ctx := context.Background()
	calls := 0
	store := memory.NewIdempotencyStore(time.Hour)
	bus := middleware.ChainCommands(echoBus(t, &calls, nil), middleware.Idempotency(store, nil))

	for range 2 {
		_, err := commands.Dispatch[echoCommand, *echoResult](ctx, bus, echoCommand{})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
}

type busFunc func(ctx context.Context, cmd commands.Command) (any, error)

func (f busFunc) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return f(ctx, cmd)
}

type unitCommand struct{ fail bool }

func (unitCommand) Key() string { return "test.unit" }

func TestTransactionInjectsUnitOfWork(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, "test.unit", commands.HandlerFunc[unitCommand, *echoResult](
		func(ctx context.Context, cmd unitCommand) (*echoResult, error) {
			_, ok := uow.FromContext(ctx)
			require.True(t, ok, "handler should see the opened unit")
			if cmd.fail {
				return nil, errors.New("handler failed")
			}
			return &echoResult{Value: "ok"}, nil
		}))
	chained := middleware.ChainCommands(bus, middleware.Transaction(factory, nil))

	res, err := commands.Dispatch[unitCommand, *echoResult](ctx, chained, unitCommand{})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Value)

	_, err = commands.Dispatch[unitCommand, *echoResult](ctx, chained, unitCommand{fail: true})
	require.EqualError(t, err, "handler failed")
}

func TestChainOrder(t *testing.T) {
	ctx := context.Background()
	var order []string
	tag := func(name string) middleware.CommandMiddleware {
		return func(next commands.Bus) commands.Bus {
			return busFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
				order = append(order, name)
				return next.Dispatch(ctx, cmd)
			})
		}
	}
	calls := 0
	bus := middleware.ChainCommands(echoBus(t, &calls, nil), tag("outer"), tag("inner"))
	_, err := bus.Dispatch(ctx, echoCommand{})
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner"}, order)
}
