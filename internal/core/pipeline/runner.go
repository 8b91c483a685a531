package pipeline

import (
	"context"
	"fmt"
	"time"

	"marketingetl/internal/core/fact"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"

	"github.com/google/uuid"
)

// Runner drives one pipeline from Idle to Done or Failed
type Runner[R any] struct {
	Name      string
	Dest      fact.Destination
	Extract   Extractor[R]
	Transform Transformer[R]
	Load      Loader
	Ledger    Ledger // optional
	Log       logger.Logger

	// seams
	now   func() time.Time
	newID func() uuid.UUID
}

// NewRunner wires a runner; extract, transform and load are required
func NewRunner[R any](log logger.Logger, name string, dest fact.Destination, ex Extractor[R], tr Transformer[R], ld Loader) *Runner[R] {
	if ex == nil || tr == nil || ld == nil {
		panic("pipeline.NewRunner requires an extractor, transformer and loader")
	}
	return &Runner[R]{
		Name: name, Dest: dest,
		Extract: ex, Transform: tr, Load: ld,
		Log: log,
	}
}

// WithLedger attaches a run ledger
func (r *Runner[R]) WithLedger(l Ledger) *Runner[R] {
	r.Ledger = l
	return r
}

func (r *Runner[R]) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *Runner[R]) id() uuid.UUID {
	if r.newID != nil {
		return r.newID()
	}
	return uuid.New()
}

// run carries the mutable state of one Run call
type run struct {
	res Result
	log logger.Logger
}

func (x *run) to(s State) {
	if x.res.State == s {
		return
	}
	if !CanTransition(x.res.State, s) {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", x.res.State, s))
	}
	x.log.Debug().Str("from", x.res.State.String()).Str("to", s.String()).Msg("state")
	x.res.State = s
}

func (x *run) fail(err error) {
	x.to(StateFailed)
	x.res.Status = StatusFailed
	x.res.Err = err
}

// Run executes the pipeline for scope. It never returns an error or panics;
// the outcome, including any failure, is carried by the Result.
func (r *Runner[R]) Run(ctx context.Context, scope Scope) (res Result) {
	x := &run{res: Result{
		RunID:    r.id(),
		Pipeline: r.Name,
		Table:    r.Dest.Table,
		Scope:    scope,
		State:    StateIdle,
		Status:   StatusRunning,
		Started:  r.clock(),
	}}
	x.log = logger.ForRun(r.Log, x.res.RunID.String(), r.Name)
	x.log.Info().
		Str("account", scope.Account).
		Str("start", scope.Period.StartDate()).
		Str("end", scope.Period.EndDate()).
		Int("days", scope.Period.Days()).
		Str("table", r.Dest.Table).
		Str("mode", string(r.Dest.Mode)).
		Msg("run started")

	if r.Ledger != nil {
		if err := r.Ledger.Start(ctx, x.res); err != nil {
			x.log.Warn().Err(err).Msg("run ledger start failed")
		}
	}

	defer func() {
		if p := recover(); p != nil {
			x.res.State = StateFailed
			x.res.Status = StatusFailed
			x.res.Err = perr.Newf(perr.ErrorCodePanic, "panic: %v", p)
		}
		x.res.Finished = r.clock()
		r.finish(ctx, x)
		res = x.res
	}()

	x.to(StateExtracting)
	r.stream(ctx, x)
	return x.res
}

// stream pulls records through the transformer into a lazily opened sink
func (r *Runner[R]) stream(ctx context.Context, x *run) {
	var sink Sink
	defer func() {
		if sink != nil {
			sink.Release()
		}
	}()

	for rec, err := range r.Extract.Extract(ctx, x.res.Scope) {
		if err != nil {
			x.fail(perr.WithOp(asCoded(err, perr.ErrorCodeSourceUnavailable), "extract"))
			return
		}
		x.res.Records++
		x.to(StateTransforming)

		rows, err := r.Transform.Transform(rec)
		if err != nil {
			x.fail(perr.WithOp(asCoded(err, perr.ErrorCodeValidation), "transform"))
			return
		}
		for _, row := range rows {
			if sink == nil {
				if sink, err = r.Load.Open(ctx, r.Dest); err != nil {
					sink = nil
					x.fail(perr.WithOp(asCoded(err, perr.ErrorCodeLoadFailure), "load"))
					return
				}
			}
			x.to(StateLoading)
			if err := sink.Write(ctx, row); err != nil {
				st := sink.Stats()
				x.res.Rows, x.res.Batches = st.Rows, st.Batches
				x.fail(perr.WithOp(asCoded(err, perr.ErrorCodeLoadFailure), "load"))
				return
			}
		}
	}

	if sink == nil {
		x.to(StateDone)
		x.res.Status = StatusNoData
		return
	}
	x.to(StateLoading)
	err := sink.Flush(ctx)
	st := sink.Stats()
	x.res.Rows, x.res.Batches = st.Rows, st.Batches
	if err != nil {
		x.fail(perr.WithOp(asCoded(err, perr.ErrorCodeLoadFailure), "load"))
		return
	}
	x.to(StateDone)
	x.res.Status = StatusOK
}

func (r *Runner[R]) finish(ctx context.Context, x *run) {
	switch x.res.Status {
	case StatusNoData:
		x.log.Info().Object("result", x.res).Msg("no data found for the given period")
	case StatusOK:
		x.log.Info().Object("result", x.res).Msg("run completed")
	default:
		x.log.Error().Err(x.res.Err).Object("result", x.res).Int("exit_code", x.res.ExitCode()).Msg("run failed")
	}

	if r.Ledger != nil {
		// recorded even when ctx is already cancelled
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := r.Ledger.Finish(lctx, x.res); err != nil {
			x.log.Warn().Err(err).Msg("run ledger finish failed")
		}
	}
}

// asCoded gives uncoded errors a default category
func asCoded(err error, code perr.ErrorCode) error {
	if _, ok := perr.As(err); ok {
		return err
	}
	return perr.Wrap(err, code, code.String())
}
