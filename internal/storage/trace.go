package storage

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
)

type ctxTraceStat struct{}

var traceStatKey ctxTraceStat = struct{}{}

// TraceStat accumulates queries made with one context. It's safe to update
// from concurrent queries, but must be read after they all finished.
type TraceStat struct {
	Elapsed time.Duration
	Queries int64
}

func (self *TraceStat) add(queries int64, d time.Duration) {
	atomic.AddInt64(&self.Queries, queries)
	atomic.AddInt64((*int64)(&self.Elapsed), int64(d))
}

// WithTraceStat returns a copy of ctx which accumulates stats of queries made
// with it into the returned TraceStat.
func WithTraceStat(ctx context.Context) (context.Context, *TraceStat) {
	t := new(TraceStat)
	return context.WithValue(ctx, traceStatKey, t), t
}

func TraceStatFrom(ctx context.Context) *TraceStat {
	t, _ := ctx.Value(traceStatKey).(*TraceStat)
	return t
}

type ctxQueryStart struct{}

var queryStartKey ctxQueryStart = struct{}{}

type queryTracer struct{}

var (
	_ pgx.BatchTracer = (*queryTracer)(nil)
	_ pgx.QueryTracer = (*queryTracer)(nil)
)

func startTrace(ctx context.Context) context.Context {
	if TraceStatFrom(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, queryStartKey, time.Now())
}

func endTrace(ctx context.Context, queries int64) {
	t := TraceStatFrom(ctx)
	if t == nil {
		return
	}
	var d time.Duration
	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		d = time.Since(start)
	}
	t.add(queries, d)
}

func (queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn,
	_ pgx.TraceQueryStartData,
) context.Context {
	return startTrace(ctx)
}

func (queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn,
	_ pgx.TraceQueryEndData,
) {
	endTrace(ctx, 1)
}

func (queryTracer) TraceBatchStart(ctx context.Context, _ *pgx.Conn,
	_ pgx.TraceBatchStartData,
) context.Context {
	return startTrace(ctx)
}

// TraceBatchQuery counts queries of a batch. Their time is counted once by
// TraceBatchEnd.
func (queryTracer) TraceBatchQuery(ctx context.Context, _ *pgx.Conn,
	_ pgx.TraceBatchQueryData,
) {
	if t := TraceStatFrom(ctx); t != nil {
		t.add(1, 0)
	}
}

func (queryTracer) TraceBatchEnd(ctx context.Context, _ *pgx.Conn,
	_ pgx.TraceBatchEndData,
) {
	endTrace(ctx, 0)
}
