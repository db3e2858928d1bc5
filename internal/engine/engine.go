// Package engine runs one batch: it streams events from a Source through the
// ledger router and writes every account's final snapshot to the sinks.
package engine

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/payments-engine/internal/codec"
	"github.com/rickgao/payments-engine/internal/model"
	"github.com/rickgao/payments-engine/internal/router"
	"github.com/rickgao/payments-engine/internal/source"
)

// Sink receives final snapshots.
type Sink interface {
	Write(ctx context.Context, s model.Snapshot) error
	Flush(ctx context.Context) error
}

// Config holds engine settings.
type Config struct {
	Router    router.RouterConfig
	Unordered bool      // emit in completion order instead of by account id
	QueueSize int       // intake -> dispatch channel size, Default: 1024
	RunID     uuid.UUID // generated when zero
}

// Result summarizes a finished run.
type Result struct {
	RunID      uuid.UUID
	Accounts   int
	Dispatched int64
	Applied    int64
	Ignored    int64 // events rejected by account rules
	Unknown    int64
	Skipped    int64
	Duration   time.Duration
}

// Engine runs a single batch.
type Engine struct {
	cfg    Config
	src    source.Source
	sinks  []Sink
	logger *slog.Logger
	runID  uuid.UUID
}

// New creates an engine reading from src and writing to sinks.
func New(cfg Config, src source.Source, logger *slog.Logger, sinks ...Sink) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1024
	}
	runID := cfg.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	return &Engine{
		cfg:    cfg,
		src:    src,
		sinks:  sinks,
		logger: logger.With("run_id", runID.String()),
		runID:  runID,
	}
}

// RunID identifies this run in logs and persisted snapshots.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Run reads the whole source, then collects and emits every account. Actors
// are always joined before Run returns, including on error.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	r := router.NewRouter(e.cfg.Router, e.logger)

	dispatchErr := e.dispatch(ctx, r)

	c, err := r.Collect()
	if err != nil {
		return Result{}, err
	}
	if dispatchErr != nil {
		for range c.Iterate() {
		}
		return Result{}, dispatchErr
	}

	var snaps iter.Seq[model.Snapshot]
	if e.cfg.Unordered {
		snaps = c.Iterate()
	} else {
		snaps = slices.Values(c.Sorted())
	}

	// Leaving the loop early still joins every actor.
	accounts := 0
	for s := range snaps {
		accounts++
		for _, sink := range e.sinks {
			if err := sink.Write(ctx, s); err != nil {
				return Result{}, fmt.Errorf("write account %d: %w", s.Client, err)
			}
		}
	}
	for _, sink := range e.sinks {
		if err := sink.Flush(ctx); err != nil {
			return Result{}, fmt.Errorf("flush sink: %w", err)
		}
	}

	stats := r.Stats()
	res := Result{
		RunID:      e.runID,
		Accounts:   accounts,
		Dispatched: stats.EventsDispatched,
		Applied:    stats.EventsApplied,
		Unknown:    stats.UnknownEvents,
		Skipped:    e.src.Skipped(),
		Duration:   time.Since(start),
	}
	for _, n := range stats.EventsIgnored {
		res.Ignored += n
	}
	e.logger.Info("run finished",
		"accounts", res.Accounts,
		"dispatched", res.Dispatched,
		"applied", res.Applied,
		"ignored", res.Ignored,
		"peak_inbox", stats.PeakInboxDepth,
		"unknown", res.Unknown,
		"skipped", res.Skipped,
		"duration", res.Duration,
	)
	return res, nil
}

// dispatch streams the source on one goroutine and feeds the router on
// another. Only the dispatching goroutine touches the router.
func (e *Engine) dispatch(ctx context.Context, r *router.Router) error {
	g, gctx := errgroup.WithContext(ctx)
	events := make(chan model.Event, e.cfg.QueueSize)

	g.Go(func() error {
		defer close(events)
		return e.src.Stream(gctx, func(ev model.Event) error {
			select {
			case events <- ev:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	g.Go(func() error {
		for ev := range events {
			if err := r.Handle(ev); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// CSVSink writes snapshots as CSV.
type CSVSink struct {
	enc *codec.Encoder
}

// NewCSVSink creates a sink writing to w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{enc: codec.NewEncoder(w)}
}

// Write implements Sink.
func (s *CSVSink) Write(_ context.Context, snap model.Snapshot) error {
	return s.enc.Encode(snap)
}

// Flush implements Sink.
func (s *CSVSink) Flush(context.Context) error {
	return s.enc.Flush()
}
