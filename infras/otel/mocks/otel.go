package mocks

import (
	"context"
	"salon/infras/otel"
	"sync"
)

// Otel is a no-op tracer that remembers the spans it opened.
type Otel struct {
	mu    sync.Mutex
	spans []string
}

func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.spans = append(o.spans, spanName)

	return ctx, NewScope()
}

func (o *Otel) Shutdown(context.Context) error {
	return nil
}

// Spans returns the span names opened so far, in order.
func (o *Otel) Spans() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return append([]string(nil), o.spans...)
}

func NewOtel() *Otel {
	return &Otel{}
}
