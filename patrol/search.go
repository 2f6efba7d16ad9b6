package patrol

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// SearchProgress is a snapshot of a running cycle search.
type SearchProgress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
	Found int `json:"found"`
}

// SearchOption configures a cycle search.
type SearchOption func(*searchOptions)

type searchOptions struct {
	workers       int
	logger        *slog.Logger
	progressEvery int
	onProgress    func(SearchProgress)
}

// WithWorkers bounds the number of concurrent trials. n <= 0 means one per
// CPU; 1 runs every trial on a single goroutine in row-major order.
func WithWorkers(n int) SearchOption {
	return func(o *searchOptions) {
		o.workers = n
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *slog.Logger) SearchOption {
	return func(o *searchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress calls fn after every `every` completed trials. fn may be
// called from several goroutines and must not block.
func WithProgress(every int, fn func(SearchProgress)) SearchOption {
	return func(o *searchOptions) {
		o.progressEvery = every
		o.onProgress = fn
	}
}

// CountCycleInducingPlacements returns how many single obstacle placements on
// free cells (other than the start) make the agent cycle forever.
func CountCycleInducingPlacements(ctx context.Context, p *Puzzle, opts ...SearchOption) (int, error) {
	cells, err := FindCycleInducingPlacements(ctx, p, opts...)
	if err != nil {
		return 0, err
	}
	return len(cells), nil
}

// FindCycleInducingPlacements tries an extra obstacle on every free cell
// other than the start and returns, in row-major order, the cells where it
// traps the agent. Each trial shares the immutable baseline grid and owns its
// own visited-state set, so trials run in parallel without locking.
func FindCycleInducingPlacements(ctx context.Context, p *Puzzle, opts ...SearchOption) ([]Coord, error) {
	o := searchOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU()
	}

	candidates := p.Candidates()
	bounds := p.Bounds()

	ctx, span := tracer.Start(ctx, "patrol.FindCycleInducingPlacements",
		trace.WithAttributes(
			attribute.Int("rows", bounds.Rows),
			attribute.Int("cols", bounds.Cols),
			attribute.Int("candidates", len(candidates)),
			attribute.Int("workers", o.workers),
		),
	)
	defer span.End()

	started := time.Now()
	o.logger.Debug("cycle search started",
		"candidates", len(candidates), "workers", o.workers)

	loops := make([]bool, len(candidates))
	var done, found atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, cell := range candidates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cycled := DetectsCycle(p.Start, p.Grid.With(cell), bounds)
			loops[i] = cycled
			if cycled {
				found.Add(1)
				trialsTotal.WithLabelValues("cycle").Inc()
			} else {
				trialsTotal.WithLabelValues("exit").Inc()
			}
			n := done.Add(1)
			if o.onProgress != nil && o.progressEvery > 0 && n%int64(o.progressEvery) == 0 {
				o.onProgress(SearchProgress{Done: int(n), Total: len(candidates), Found: int(found.Load())})
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search aborted")
		o.logger.Warn("cycle search aborted", "done", done.Load(), "total", len(candidates), "error", err)
		return nil, &AbortError{PatrolError: PatrolError{Message: "cycle search aborted", Cause: err}}
	}

	result := make([]Coord, 0, found.Load())
	for i, cycled := range loops {
		if cycled {
			result = append(result, candidates[i])
		}
	}

	elapsed := time.Since(started)
	searchDuration.Observe(elapsed.Seconds())
	span.SetAttributes(attribute.Int("placements", len(result)))
	o.logger.Debug("cycle search finished",
		"placements", len(result), "elapsed", elapsed)
	return result, nil
}

// TrialDetectsCycle runs a single trial with an extra obstacle at cell. The
// cell must be in bounds, free, and not the start cell.
func (p *Puzzle) TrialDetectsCycle(cell Coord) (bool, error) {
	var reason string
	switch {
	case !p.Bounds().Contains(cell):
		reason = "outside the grid"
	case cell == p.Start.Pos:
		reason = "cell is the agent's start"
	case p.Grid.Blocked(cell):
		reason = "cell already holds an obstacle"
	}
	if reason != "" {
		return false, &InvalidPlacementError{PatrolError: PatrolError{Message: reason}, Cell: cell}
	}
	return DetectsCycle(p.Start, p.Grid.With(cell), p.Bounds()), nil
}
