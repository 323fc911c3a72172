// Package app wires the core engine into services consumed by callers.
package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/artpar/attrkit/core/attribute"
	"github.com/artpar/attrkit/core/resolve"
	"github.com/artpar/attrkit/core/resource"
	"github.com/artpar/attrkit/ports"
)

// Materializer computes the effective attribute values for record writes
// against a compiled resource: caller-supplied values pass through, defaults
// are resolved for the rest. One batch call is one logical operation; each
// record gets a fresh resolution scope unless BatchScope is set.
type Materializer struct {
	logger  zerolog.Logger
	metrics ports.Metrics
	cfg     MaterializerConfig
}

// MaterializerConfig configures batch behavior.
type MaterializerConfig struct {
	// Workers bounds concurrent record resolution within a batch.
	// Values below 1 mean sequential.
	Workers int

	// BatchScope shares one resolution scope across every record of a
	// batch, so shared generators resolve once batch-wide (all records
	// observe identical instants). Off by default: each record resolves
	// its shared defaults independently.
	BatchScope bool
}

// NewMaterializer creates a materializer.
func NewMaterializer(logger zerolog.Logger, metrics ports.Metrics, cfg MaterializerConfig) *Materializer {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Materializer{logger: logger, metrics: metrics, cfg: cfg}
}

// RecordResult is the outcome for one record of a batch. Err is set when a
// default generator failed for that record; other records are unaffected.
type RecordResult struct {
	Index  int
	Values attribute.Record
	Err    error
}

// Create materializes a single record create.
func (m *Materializer) Create(ctx context.Context, res resource.Resource, record attribute.Record) (attribute.Record, error) {
	results := m.CreateBatch(ctx, res, []attribute.Record{record})
	return results[0].Values, results[0].Err
}

// Update materializes a single record update.
func (m *Materializer) Update(ctx context.Context, res resource.Resource, changes, prior attribute.Record) (attribute.Record, error) {
	results := m.UpdateBatch(ctx, res, []attribute.Record{changes}, []attribute.Record{prior})
	return results[0].Values, results[0].Err
}

// CreateBatch materializes one bulk create. The returned slice has one entry
// per input record in order; failures are per record, the batch is never
// aborted by one bad generator.
func (m *Materializer) CreateBatch(ctx context.Context, res resource.Resource, records []attribute.Record) []RecordResult {
	return m.runBatch(ctx, res, records, nil)
}

// UpdateBatch materializes one bulk update. priors holds each record's
// pre-update state, aligned with changes; update defaults apply on every
// record regardless of what changed.
func (m *Materializer) UpdateBatch(ctx context.Context, res resource.Resource, changes, priors []attribute.Record) []RecordResult {
	return m.runBatch(ctx, res, changes, priors)
}

func (m *Materializer) runBatch(ctx context.Context, res resource.Resource, records, priors []attribute.Record) []RecordResult {
	results := make([]RecordResult, len(records))

	var batchScope *resolve.Scope
	if m.cfg.BatchScope {
		batchScope = resolve.NewScope()
	}

	g, ctx := errgroup.WithContext(ctx)
	if m.cfg.Workers > 1 {
		g.SetLimit(m.cfg.Workers)
	} else {
		g.SetLimit(1)
	}

	update := priors != nil

	for i := range records {
		i := i
		results[i].Index = i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			scope := batchScope
			if scope == nil {
				scope = resolve.NewScope()
			}

			var prior attribute.Record
			if update {
				prior = priors[i]
			}

			values, err := m.materializeOne(scope, res, records[i], prior, update)
			results[i].Values = values
			results[i].Err = err
			return nil
		})
	}
	g.Wait()

	return results
}

// materializeOne resolves defaults for the attributes the caller did not
// supply and merges them with the supplied values.
func (m *Materializer) materializeOne(scope *resolve.Scope, res resource.Resource, supplied, prior attribute.Record, update bool) (attribute.Record, error) {
	needing := make([]attribute.Attribute, 0, len(res.Attributes))
	for _, a := range res.Attributes {
		if _, ok := supplied[a.Name]; ok {
			continue
		}
		needing = append(needing, a)
	}

	var resolved attribute.Record
	var err error
	if update {
		resolved, err = resolve.Update(scope, needing, prior)
	} else {
		resolved, err = resolve.Create(scope, needing)
	}
	if err != nil {
		var rerr *resolve.ResolutionError
		attrName := ""
		if errors.As(err, &rerr) {
			attrName = rerr.Attribute
		}
		m.metrics.GeneratorFailure(res.Name, attrName)
		m.logger.Warn().
			Err(err).
			Str("resource", res.Name).
			Str("attribute", attrName).
			Msg("default generator failed")
		return nil, err
	}

	values := make(attribute.Record, len(supplied)+len(resolved))
	for k, v := range supplied {
		values[k] = v
	}
	for _, a := range needing {
		v, ok := resolved[a.Name]
		if !ok {
			continue
		}
		values[a.Name] = v
		m.metrics.ResolvedDefault(res.Name, resolve.Shared(a, update))
	}
	return values, nil
}

// noopMetrics keeps the hot path nil-safe without an adapter import.
type noopMetrics struct{}

func (noopMetrics) ResolvedDefault(string, bool)    {}
func (noopMetrics) GeneratorFailure(string, string) {}
func (noopMetrics) ResourceCompiled(string, bool)   {}
