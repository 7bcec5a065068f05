package trace

import "context"

// carrier is everything a context contributes to new events.
type carrier struct {
	tracer Tracer
	span   uint64
	lane   uint32
}

type carrierKey struct{}

func carrierOf(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(carrierKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

func (c carrier) attach(ctx context.Context) context.Context {
	return context.WithValue(ctx, carrierKey{}, c)
}

// FromContext returns the Tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return carrierOf(ctx).tracer
}

// WithTracer attaches t to ctx and starts a fresh span tree under it.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	c := carrierOf(ctx)
	return carrier{tracer: t, lane: c.lane}.attach(ctx)
}

// WithLane tags events started under ctx with lane, which chrome traces
// show as a separate thread row. The driver gives every parallel plan its
// own lane.
func WithLane(ctx context.Context, lane uint32) context.Context {
	c := carrierOf(ctx)
	c.lane = lane
	return c.attach(ctx)
}

// CurrentSpan returns the ID of the innermost span started under ctx.
func CurrentSpan(ctx context.Context) uint64 {
	return carrierOf(ctx).span
}

// Bind returns a Tracer that stamps events without a parent or lane with the
// span and lane of ctx. Components that only hold a Tracer, like the
// builder, stay attached to the span that created them.
func Bind(ctx context.Context) Tracer {
	c := carrierOf(ctx)
	if !c.tracer.Enabled() {
		return Nop
	}
	return bound{Tracer: c.tracer, parent: c.span, lane: c.lane}
}

type bound struct {
	Tracer
	parent uint64
	lane   uint32
}

func (b bound) Emit(ev *Event) {
	if ev.ParentID == 0 {
		ev.ParentID = b.parent
	}
	if ev.Lane == 0 {
		ev.Lane = b.lane
	}
	b.Tracer.Emit(ev)
}
