package engine

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skyeshanohan/rulesync/internal/inventory"
	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
	"github.com/skyeshanohan/rulesync/internal/policy"
	"github.com/skyeshanohan/rulesync/internal/report"
	rulesyncerrors "github.com/skyeshanohan/rulesync/pkg/errors"
)

// Classifier produces exactly one result per resource and never fails; any
// unexpected condition is absorbed into the error state.
type Classifier interface {
	Classify(ctx context.Context, scope string, res model.Resource) model.ClassificationResult
}

// Options parameterizes a single run.
type Options struct {
	Scope    string
	PolicyID int64
	DryRun   bool
}

// Reconciler drives the pipeline: enumerate and classify concurrently with
// the policy read, reduce to the desired set, diff, and apply at most once.
type Reconciler struct {
	lister     inventory.Lister
	classifier Classifier
	store      policy.Store
	batchSize  int
	batchDelay time.Duration
	log        *logger.Logger
}

// New wires a reconciler. batchSize bounds concurrent classifications;
// batchDelay is the pause between batches.
func New(lister inventory.Lister, classifier Classifier, store policy.Store, batchSize int, batchDelay time.Duration, log *logger.Logger) *Reconciler {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Reconciler{
		lister:     lister,
		classifier: classifier,
		store:      store,
		batchSize:  batchSize,
		batchDelay: batchDelay,
		log:        log,
	}
}

// Run executes one reconciliation pass. A report is always returned; the
// error is non-nil exactly when the run is fatal (enumeration, policy read,
// or apply failure).
func (r *Reconciler) Run(ctx context.Context, opts Options) (*model.RunReport, error) {
	run := model.NewRun(opts.Scope, opts.DryRun)
	log := r.log.WithFields(map[string]any{"run": run.RunID, "scope": opts.Scope})
	log.Info("reconciliation run started")

	var results []model.ClassificationResult
	var state *model.PolicyState

	// Classification and the policy read are independent; run them
	// concurrently. Either failure aborts before anything is written.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		resources, err := r.lister.List(gctx, opts.Scope)
		if err != nil {
			return err
		}
		results, err = r.classifyAll(gctx, opts.Scope, resources)
		return err
	})
	g.Go(func() error {
		s, err := r.store.Get(gctx, opts.Scope, opts.PolicyID)
		if err != nil {
			return err
		}
		state = s
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error(err, "reconciliation run aborted")
		return report.Failure(run, CountStates(results), model.Diff{}, err), err
	}

	desired := DesiredSet(results)
	diff := ComputeDiff(desired, state.Membership)
	counts := CountStates(results)

	log.WithFields(map[string]any{
		"classified": counts.Total(),
		"governed":   counts.Governed,
		"added":      len(diff.Added),
		"removed":    len(diff.Removed),
	}).Info("desired membership computed")

	outcome, err := r.apply(ctx, opts, state, diff, desired)
	if err != nil {
		log.Error(err, "membership apply failed")
		rep := report.Build(run, counts, diff, model.OutcomeFailed, err.Error(), state.Membership, desired)
		return rep, err
	}

	log.WithFields(map[string]any{"outcome": string(outcome)}).Info("reconciliation run complete")
	return report.Build(run, counts, diff, outcome, "", state.Membership, desired), nil
}

func (r *Reconciler) apply(ctx context.Context, opts Options, state *model.PolicyState, diff model.Diff, desired []string) (model.ApplyOutcome, error) {
	if opts.DryRun {
		return model.OutcomeDryRun, nil
	}
	if !diff.RequiresUpdate() {
		// Skipping the write avoids revision churn in the external store.
		return model.OutcomeNoOp, nil
	}

	// Last cancellation point. Once the write is issued the run succeeds or
	// fails as a unit; the store's own timeout still bounds the call.
	if err := ctx.Err(); err != nil {
		return model.OutcomeFailed, err
	}

	writeCtx := context.WithoutCancel(ctx)
	if err := r.store.ReplaceMembership(writeCtx, opts.Scope, state, desired); err != nil {
		return model.OutcomeFailed, rulesyncerrors.NewApplyError(state.PolicyID, diff.Added, diff.Removed, err)
	}

	return model.OutcomeApplied, nil
}

// classifyAll processes resources in fixed-size batches with bounded
// parallelism inside each batch. Result order matches input order, though
// nothing downstream depends on it.
func (r *Reconciler) classifyAll(ctx context.Context, scope string, resources []model.Resource) ([]model.ClassificationResult, error) {
	results := make([]model.ClassificationResult, len(resources))

	for start := 0; start < len(resources); start += r.batchSize {
		end := min(start+r.batchSize, len(resources))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.batchSize)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = r.classifier.Classify(gctx, scope, resources[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		r.log.WithFields(map[string]any{
			"batch": strconv.Itoa(start/r.batchSize + 1),
			"done":  end,
			"total": len(resources),
		}).Debug("classification batch complete")

		if end < len(resources) && r.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.batchDelay):
			}
		}
	}

	return results, nil
}
