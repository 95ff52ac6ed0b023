package llmclient

import (
	"context"
	"log"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (request pacing, logging).
type Middleware func(Client) Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner Client, mws ...Middleware) Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithLogging logs request size and errors. Provide a custom logger or nil
// to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Client) Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) Generate(ctx context.Context, systemPrompt string) (string, error) {
	l.log.Printf("LLM request (%s): %d bytes", l.next.Name(), len(systemPrompt))
	out, err := l.next.Generate(ctx, systemPrompt)
	if err != nil {
		l.log.Printf("LLM error (%s): %v", l.next.Name(), err)
	}
	return out, err
}

// RateLimit paces requests with a token bucket. If rps <= 0 the
// middleware is a pass-through.
func RateLimit(rps float64, burst int) Middleware {
	return func(next Client) Client {
		return &rateLimited{next: next, rl: newRPSLimiter(rps, burst)}
	}
}

type rateLimited struct {
	next Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }
func (c *rateLimited) Close() error {
	if c.rl != nil {
		c.rl.Stop()
	}
	return c.next.Close()
}

func (c *rateLimited) Generate(ctx context.Context, systemPrompt string) (string, error) {
	if c.rl != nil {
		if err := c.rl.Acquire(ctx); err != nil {
			return "", err
		}
	}
	return c.next.Generate(ctx, systemPrompt)
}
