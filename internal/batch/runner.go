package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/strategydeck/icongen/internal/emit"
	"github.com/strategydeck/icongen/internal/model"
	"github.com/strategydeck/icongen/internal/resolve"
)

// ProgressEvent is published after each processed item. It is an
// observable side effect for progress-consuming collaborators (typically
// a log sink), not part of the run result.
type ProgressEvent struct {
	// Index is the 1-based position within the batch (not the CSV row).
	Index int

	// Total is the batch size.
	Total int

	// Request is the item just processed.
	Request model.VariantRequest

	// Err is nil when the item succeeded.
	Err error
}

// Runner iterates the resolver and emitter over a request list and
// aggregates a batch summary. Construct with New.
type Runner struct {
	resolver *resolve.Resolver
	emitter  *emit.Emitter
	log      *slog.Logger

	// Progress, when non-nil, receives an event after each item.
	Progress func(ProgressEvent)

	// DryRun is recorded into the summary so consumers can tell a
	// preview apart from a real run.
	DryRun bool
}

// New creates a Runner. A nil logger falls back to slog.Default().
func New(resolver *resolve.Resolver, emitter *emit.Emitter, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{resolver: resolver, emitter: emitter, log: log}
}

// Run processes every request in order and returns the summary.
//
// Per-item failures never stop the batch; they are recorded in
// Summary.Failed, ordered by original request index. Context cancellation
// is checked at item boundaries: the in-flight item completes (or is
// rolled back by the emitter's atomic writes), the summary is finalized
// with Cancelled set, and the remaining items are not processed.
func (r *Runner) Run(ctx context.Context, requests []model.VariantRequest) *model.BatchSummary {
	start := time.Now()
	summary := &model.BatchSummary{TotalRequested: len(requests), DryRun: r.DryRun}

	for i, req := range requests {
		if ctx.Err() != nil {
			r.log.Warn("batch interrupted", "processed", i, "total", len(requests))
			summary.Cancelled = true
			break
		}

		err := r.processItem(req, summary)
		if err != nil {
			kind := model.Classify(err)
			summary.Failed = append(summary.Failed, model.ItemFailure{
				Row:     req.Row,
				Kind:    kind,
				Message: err.Error(),
				Request: req,
			})
			r.log.Error("item failed", "row", req.Row, "variant", req.String(), "kind", string(kind), "error", err)
		} else {
			summary.Succeeded++
		}

		r.publishProgress(ProgressEvent{Index: i + 1, Total: len(requests), Request: req, Err: err})
	}

	summary.Elapsed = time.Since(start)
	r.log.Info("batch completed",
		"succeeded", summary.Succeeded,
		"failed", len(summary.Failed),
		"pngExported", summary.PNGExported,
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	return summary
}

// processItem resolves and emits a single request, folding the emit
// result into the summary on success.
func (r *Runner) processItem(req model.VariantRequest, summary *model.BatchSummary) error {
	rv, err := r.resolver.Resolve(req)
	if err != nil {
		return err
	}

	result, err := r.emitter.Emit(rv)
	if err != nil {
		return err
	}

	if result.PNGWritten {
		summary.PNGExported++
	}
	summary.Files = append(summary.Files, result.Files...)
	return nil
}

// publishProgress delivers an event to the Progress sink, if any.
func (r *Runner) publishProgress(ev ProgressEvent) {
	if r.Progress != nil {
		r.Progress(ev)
	}
}
