// Package comparer runs configured comparison, imputation and aggregate jobs: it loads
// tables from the stores, normalizes codes, and hands the tables to the
// analysis core.
package comparer

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/demanddiff/internal/analysis"
	"github.com/dbsmedya/demanddiff/internal/codes"
	"github.com/dbsmedya/demanddiff/internal/config"
	"github.com/dbsmedya/demanddiff/internal/logger"
	"github.com/dbsmedya/demanddiff/internal/report"
	"github.com/dbsmedya/demanddiff/internal/store"
)

// Runner executes jobs against a set of stores.
type Runner struct {
	stores    *store.Set
	encoder   *codes.Encoder
	logger    *logger.Logger
	preflight bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithEncoder replaces the default balancing-authority encoder.
func WithEncoder(enc *codes.Encoder) Option {
	return func(r *Runner) { r.encoder = enc }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Runner) { r.logger = log }
}

// WithPreflight checks table and column existence before every load.
func WithPreflight(enabled bool) Option {
	return func(r *Runner) { r.preflight = enabled }
}

// NewRunner creates a Runner.
func NewRunner(stores *store.Set, opts ...Option) *Runner {
	r := &Runner{stores: stores, preflight: true}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.NewDefault()
	}
	if r.encoder == nil {
		r.encoder = codes.DefaultEncoder()
	}
	return r
}

// Compare runs one comparison job and returns the ranked report.
func (r *Runner) Compare(ctx context.Context, name string, job *config.ComparisonConfig) (*report.Report, error) {
	how, err := analysis.ParseJoinMode(job.Join)
	if err != nil {
		return nil, err
	}
	bucket, err := analysis.ParseBucket(job.Bucket)
	if err != nil {
		return nil, err
	}
	by, err := analysis.ParseRankField(job.Rank.By)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithJob(name)
	start := time.Now()
	log.Infow("Starting comparison", "join", how.String(), "bucket", bucket.String())

	reqA, err := sideRequest(job, job.Reference)
	if err != nil {
		return nil, err
	}
	reqB, err := sideRequest(job, job.Comparison)
	if err != nil {
		return nil, err
	}

	tableA, err := r.loadSide(ctx, log, job, job.Reference, reqA)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	tableB, err := r.loadSide(ctx, log, job, job.Comparison, reqB)
	if err != nil {
		return nil, fmt.Errorf("comparison: %w", err)
	}

	aligned, err := analysis.Align(tableA, tableB, analysis.AlignSpec{
		GroupKeys: job.KeyNames(),
		Timestamp: job.Timestamp,
		ValueA:    job.Reference.Value,
		ValueB:    job.Comparison.Value,
		How:       how,
	})
	if err != nil {
		return nil, err
	}

	records, err := analysis.Discrepancy(aligned, job.GroupKeys(), bucket)
	if err != nil {
		return nil, err
	}

	opts := analysis.RankOptions{By: by, Ascending: job.Rank.Ascending}
	if job.Rank.TopN > 0 {
		topN := job.Rank.TopN
		opts.TopN = &topN
	}
	ranked, err := analysis.Rank(records, opts)
	if err != nil {
		return nil, err
	}

	rep := report.New(name, job.GroupKeys(), bucket, how, by, ranked)
	rep.Description = job.Description
	log.WithRun(rep.RunID).Infow("Comparison complete",
		"aligned_pairs", aligned.Len(),
		"records", len(records),
		"reported", len(ranked),
		"duration", time.Since(start),
	)
	return rep, nil
}

// Imputation runs one imputation job.
func (r *Runner) Imputation(ctx context.Context, name string, job *config.ImputationConfig) (*report.ImputationReport, error) {
	bucket, err := analysis.ParseBucket(job.Bucket)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithJob(name)
	req, err := imputationRequest(job)
	if err != nil {
		return nil, err
	}

	table, err := r.load(ctx, log, job.Table, req)
	if err != nil {
		return nil, err
	}
	table, err = r.normalize(log, table, job.NormalizeCodes)
	if err != nil {
		return nil, err
	}

	rates, err := analysis.ImputationRate(table, analysis.ImputationSpec{
		GroupKeys: job.GroupKeys(),
		Flag:      job.Flag,
		Timestamp: job.Timestamp,
		Bucket:    bucket,
	})
	if err != nil {
		return nil, err
	}

	rep := report.NewImputation(name, job.GroupKeys(), bucket, rates.Entries())
	rep.Description = job.Description
	log.WithRun(rep.RunID).Infow("Imputation complete", "rows", table.Len(), "groups", rates.Len())
	return rep, nil
}

// Aggregate runs one aggregate job: the value summed per group and period,
// with each group's share of its period total.
func (r *Runner) Aggregate(ctx context.Context, name string, job *config.AggregateConfig) (*report.AggregateReport, error) {
	bucket, err := analysis.ParseBucket(job.Bucket)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithJob(name)
	req, err := aggregateRequest(job)
	if err != nil {
		return nil, err
	}

	table, err := r.load(ctx, log, job.Table, req)
	if err != nil {
		return nil, err
	}
	table, err = r.normalize(log, table, job.NormalizeCodes)
	if err != nil {
		return nil, err
	}

	agg, err := analysis.Aggregate(table, analysis.AggregateSpec{
		GroupKeys: job.GroupKeys(),
		Timestamp: job.Timestamp,
		Value:     job.Table.Value,
		Bucket:    bucket,
	})
	if err != nil {
		return nil, err
	}

	rep := report.NewAggregate(name, job.GroupKeys(), job.Table.Value, agg)
	rep.Description = job.Description
	log.WithRun(rep.RunID).Infow("Aggregate complete", "rows", table.Len(), "groups", agg.Len())
	return rep, nil
}

// CheckComparison runs the schema preflight for both sides of a job.
func (r *Runner) CheckComparison(ctx context.Context, job *config.ComparisonConfig) error {
	for _, side := range []config.TableConfig{job.Reference, job.Comparison} {
		req, err := sideRequest(job, side)
		if err != nil {
			return err
		}
		if err := r.check(ctx, side, req); err != nil {
			return err
		}
	}
	return nil
}

// CheckImputation runs the schema preflight for an imputation job.
func (r *Runner) CheckImputation(ctx context.Context, job *config.ImputationConfig) error {
	req, err := imputationRequest(job)
	if err != nil {
		return err
	}
	return r.check(ctx, job.Table, req)
}

// CheckAggregate runs the schema preflight for an aggregate job.
func (r *Runner) CheckAggregate(ctx context.Context, job *config.AggregateConfig) error {
	req, err := aggregateRequest(job)
	if err != nil {
		return err
	}
	return r.check(ctx, job.Table, req)
}

func (r *Runner) check(ctx context.Context, side config.TableConfig, req store.Request) error {
	sup, err := r.stores.Get(side.StoreName())
	if err != nil {
		return err
	}
	return store.Preflight(ctx, sup, req)
}

// loadSide loads one comparison side, normalizes codes and applies rollup.
func (r *Runner) loadSide(ctx context.Context, log *logger.Logger, job *config.ComparisonConfig, side config.TableConfig, req store.Request) (*analysis.Table, error) {
	table, err := r.load(ctx, log, side, req)
	if err != nil {
		return nil, err
	}
	table, err = r.normalize(log, table, job.NormalizeCodes)
	if err != nil {
		return nil, err
	}
	if !side.Rollup {
		return table, nil
	}

	rolled, err := analysis.Rollup(table, analysis.RollupSpec{
		GroupKeys: job.KeyNames(),
		Timestamp: job.Timestamp,
		Value:     side.Value,
	})
	if err != nil {
		return nil, err
	}
	log.WithTable(side.Table).Debugf("Rolled up %d rows into %d", table.Len(), rolled.Len())
	return rolled, nil
}

func (r *Runner) load(ctx context.Context, log *logger.Logger, side config.TableConfig, req store.Request) (*analysis.Table, error) {
	sup, err := r.stores.Get(side.StoreName())
	if err != nil {
		return nil, err
	}
	if r.preflight {
		if err := store.Preflight(ctx, sup, req); err != nil {
			return nil, err
		}
	}
	log.WithTable(side.Table).WithStore(sup.Name()).Debug("Loading table")
	return sup.Load(ctx, req)
}

func (r *Runner) normalize(log *logger.Logger, table *analysis.Table, fields []string) (*analysis.Table, error) {
	for _, field := range fields {
		encoded, stats, err := r.encoder.EncodeTable(table, field)
		if err != nil {
			return nil, err
		}
		if stats.Fixed > 0 || stats.Dropped > 0 {
			log.WithTable(table.Name()).Infow("Normalized codes",
				"field", field,
				"fixed", stats.Fixed,
				"dropped", stats.Dropped,
			)
		}
		table = encoded
	}
	return table, nil
}
