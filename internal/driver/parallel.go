package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"missionreview/internal/diag"
	"missionreview/internal/logger"
	"missionreview/internal/mission"
)

// Options configure CheckAll.
type Options struct {
	// Jobs bounds concurrent mission checks; 0 means GOMAXPROCS.
	Jobs     int
	Mission  mission.Options
	Prefixes mission.Prefixes
	// Cache is optional. Salt is folded into every cache key and must change
	// whenever the tool version or configuration does.
	Cache    *DiskCache
	Salt     uint64
	Progress ProgressSink
	Logger   *zap.Logger
}

// Result is the outcome of one mission.
type Result struct {
	Mission     Mission
	Diagnostics []diag.Diagnostic
	// Err is set when the review could not complete; Diagnostics then also
	// carries an error entry describing it.
	Err     error
	Cached  bool
	Elapsed time.Duration
}

// CheckAll reviews missions in parallel. Each mission's diagnostics are
// appended to sink as one block as soon as it finishes. Results are indexed
// like missions. The returned error is only set when ctx is cancelled.
func CheckAll(ctx context.Context, missions []Mission, sink *diag.Collector, opts Options) ([]Result, error) {
	results := make([]Result, len(missions))
	if len(missions) == 0 {
		return results, nil
	}
	log := logger.For(opts.Logger, logger.ComponentDriver)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, m := range missions {
		emit(opts.Progress, Event{Mission: m.Name, Stage: StageCheck, Status: StatusQueued})
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(missions)))
	for i, m := range missions {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := checkOne(gctx, m, opts, log)
			results[i] = res
			if sink != nil {
				sink.Append(res.Diagnostics...)
			}
			status := StatusDone
			if res.Err != nil {
				status = StatusError
			}
			emit(opts.Progress, Event{
				Mission: m.Name, Stage: StageCheck, Status: status, Err: res.Err, Elapsed: res.Elapsed,
				Cached: res.Cached, Errors: countErrors(res.Diagnostics),
			})
			log.Debug("mission checked",
				zap.String("mission", m.Name),
				zap.Duration("duration", res.Elapsed),
				zap.Int("diagnostics", len(res.Diagnostics)),
				zap.Bool("cached", res.Cached),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func checkOne(ctx context.Context, m Mission, opts Options, log *zap.Logger) Result {
	start := time.Now()
	res := Result{Mission: m}
	res.Diagnostics = mission.CheckPrefix(m.Dir, m.Nested, opts.Prefixes)

	var (
		key   Key
		keyed bool
	)
	if opts.Cache != nil {
		emit(opts.Progress, Event{Mission: m.Name, Stage: StageCache, Status: StatusWorking})
		var err error
		key, err = MissionKey(m.Dir, opts.Salt)
		if err != nil {
			log.Warn("cache key failed", zap.String("mission", m.Name), zap.Error(err))
		} else {
			keyed = true
			var payload DiskPayload
			hit, err := opts.Cache.Get(key, &payload)
			if err != nil {
				log.Warn("cache read failed", zap.String("mission", m.Name), zap.Error(err))
			}
			if hit {
				res.Diagnostics = append(res.Diagnostics, payload.Diagnostics...)
				res.Cached = true
				res.Elapsed = time.Since(start)
				return res
			}
		}
	}

	emit(opts.Progress, Event{Mission: m.Name, Stage: StageCheck, Status: StatusWorking})
	found, err := mission.Check(ctx, m.Dir, opts.Mission)
	res.Diagnostics = append(res.Diagnostics, found...)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		res.Diagnostics = append(res.Diagnostics, diag.AtStart(
			filepath.Join(m.Dir, "mission.sqm"),
			fmt.Sprintf("mission could not be reviewed: %v", err),
			diag.LevelError,
		))
		return res
	}

	if keyed {
		if err := opts.Cache.Put(key, &DiskPayload{Mission: m.Name, Diagnostics: found}); err != nil {
			log.Warn("cache write failed", zap.String("mission", m.Name), zap.Error(err))
		}
	}
	return res
}

func countErrors(items []diag.Diagnostic) int {
	n := 0
	for _, d := range items {
		if d.Level == diag.LevelError {
			n++
		}
	}
	return n
}

// Failed returns the results whose review did not complete.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
