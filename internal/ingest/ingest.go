// Package ingest builds the question repository from the remote API.
package ingest

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/kchang/trivia/internal/opentdb"
	"github.com/kchang/trivia/internal/trivia"
)

const (
	DefaultBatchSize = 50
	DefaultDelay     = 5 * time.Second
)

// Saver persists a complete question collection.
type Saver interface {
	Save(questions []trivia.Question) error
}

// Progress is reported after every step of a run.
type Progress struct {
	Stage     Stage
	Retrieved int
	Target    int
	Calls     int
}

// Config holds pacing parameters.
type Config struct {
	// BatchSize is the amount requested per batch call. Default: 50.
	BatchSize int

	// Delay is waited before every call after the first batch. Default: 5s.
	Delay time.Duration
}

// Ingester runs paginated, rate-limited ingestion. Calls are strictly
// sequential: the token's deduplication state depends on call order.
type Ingester struct {
	source opentdb.Source
	saver  Saver
	rng    *rand.Rand
	cfg    Config
	logger *zap.Logger

	// sleep is replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Ingester. A nil logger disables logging.
func New(source opentdb.Source, saver Saver, rng *rand.Rand, cfg Config, logger *zap.Logger) *Ingester {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		source: source,
		saver:  saver,
		rng:    rng,
		cfg:    cfg,
		logger: logger.Named("ingest"),
		sleep:  sleepContext,
	}
}

// Run fetches questions until estimatedTotal is reached or the token is
// exhausted, normalizes them and saves the whole collection once. When
// estimatedTotal <= 0 the count endpoint is asked first. progress may be nil.
//
// Any failure aborts the run with an *Error and leaves durable storage as it
// was.
func (in *Ingester) Run(ctx context.Context, estimatedTotal int, progress func(Progress)) ([]trivia.Question, error) {
	r := &run{in: in, progress: progress}
	if r.progress == nil {
		r.progress = func(Progress) {}
	}

	target := estimatedTotal
	if target <= 0 {
		n, err := in.source.TotalQuestionCount(ctx)
		r.calls++
		if err != nil {
			return nil, r.fail(StageCount, err)
		}
		target = n
	}
	r.target = target
	r.report(StageCount)

	token, err := in.source.RequestToken(ctx)
	r.calls++
	if err != nil {
		return nil, r.fail(StageToken, err)
	}
	r.report(StageToken)

	if err := r.batches(ctx, token); err != nil {
		return nil, err
	}
	if err := r.singles(ctx, token); err != nil {
		return nil, err
	}

	questions := make([]trivia.Question, 0, len(r.raw))
	for _, rec := range r.raw {
		q := trivia.Normalize(rec.Record(), in.rng)
		if err := q.Validate(); err != nil {
			in.logger.Warn("skipping malformed question",
				zap.String("category", q.Category),
				zap.String("question", q.Text),
				zap.Error(err))
			continue
		}
		q.ID = len(questions)
		questions = append(questions, q)
	}

	r.report(StageSave)
	if err := in.saver.Save(questions); err != nil {
		return nil, r.fail(StageSave, err)
	}

	in.logger.Info("ingestion complete",
		zap.Int("questions", len(questions)),
		zap.Int("target", r.target),
		zap.Int("calls", r.calls))
	r.report(StageDone)
	return questions, nil
}

// run carries the mutable state of a single Run call.
type run struct {
	in       *Ingester
	progress func(Progress)
	raw      []opentdb.RawQuestion
	target   int
	calls    int

	// fetched counts questions-endpoint calls; only the first goes out
	// without a delay.
	fetched int
}

// batches fetches full batches while a whole batch still fits under the
// target. The first goes out immediately, later ones after the delay. A
// target below one batch skips this phase entirely.
func (r *run) batches(ctx context.Context, token string) error {
	size := r.in.cfg.BatchSize
	for len(r.raw)+size <= r.target {
		if err := r.pace(ctx); err != nil {
			return r.fail(StageBatch, err)
		}
		qs, err := r.in.source.Questions(ctx, size, token)
		r.calls++
		r.fetched++
		if opentdb.IsExhausted(err) {
			r.in.logger.Info("token exhausted during batch phase", zap.Int("retrieved", len(r.raw)))
			return nil
		}
		if err != nil {
			return r.fail(StageBatch, err)
		}
		r.raw = append(r.raw, qs...)
		r.in.logger.Debug("batch fetched", zap.Int("received", len(qs)), zap.Int("retrieved", len(r.raw)))
		r.report(StageBatch)
		if len(qs) == 0 {
			return nil
		}
	}
	return nil
}

// singles fetches the remainder one question per call. The number of calls
// is fixed up front so a service returning nothing cannot loop forever.
func (r *run) singles(ctx context.Context, token string) error {
	remaining := r.target - len(r.raw)
	for i := 0; i < remaining; i++ {
		if err := r.pace(ctx); err != nil {
			return r.fail(StageSingle, err)
		}
		qs, err := r.in.source.Questions(ctx, 1, token)
		r.calls++
		r.fetched++
		if opentdb.IsExhausted(err) {
			r.in.logger.Info("token exhausted during single phase", zap.Int("retrieved", len(r.raw)))
			return nil
		}
		if err != nil {
			return r.fail(StageSingle, err)
		}
		r.raw = append(r.raw, qs...)
		r.report(StageSingle)
	}
	return nil
}

// pace waits the configured delay before every questions call but the first.
func (r *run) pace(ctx context.Context) error {
	if r.fetched == 0 {
		return ctx.Err()
	}
	return r.in.sleep(ctx, r.in.cfg.Delay)
}

func (r *run) report(stage Stage) {
	r.progress(Progress{Stage: stage, Retrieved: len(r.raw), Target: r.target, Calls: r.calls})
}

func (r *run) fail(stage Stage, err error) error {
	r.in.logger.Error("ingestion aborted",
		zap.String("stage", string(stage)),
		zap.Int("retrieved", len(r.raw)),
		zap.Int("calls", r.calls),
		zap.Error(err))
	return &Error{Stage: stage, Err: err}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
