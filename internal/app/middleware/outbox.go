package middleware

import (
	"context"

	"erents/internal/app/commands"
	"erents/internal/app/outbox"
)

// OutboxFlush pushes buffered event records to the durable store after a
// command succeeds. It sits inside the Transaction middleware so the flush
// shares the command's unit of work.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
