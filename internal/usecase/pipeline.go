package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"DocketWatch/internal/classify"
	"DocketWatch/internal/dedup"
	"DocketWatch/internal/domain"
	"DocketWatch/internal/metrics"
	"DocketWatch/internal/parse"
	"DocketWatch/internal/ports"
	"DocketWatch/internal/scanner"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.ReleaseSource
	Extractor  ports.Extractor
	Parser     *parse.Parser
	Classifier *classify.Classifier
	Store      ports.SeenStore
	Notifier   ports.Notifier
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline implements one ingestion run: fetch, extract, parse, classify,
// filter against the seen set and persist.
type Pipeline struct {
	source     ports.ReleaseSource
	extractor  ports.Extractor
	parser     *parse.Parser
	classifier *classify.Classifier
	store      ports.SeenStore
	notifier   ports.Notifier
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// Result describes a successful run.
type Result struct {
	RunID    string
	Category domain.Category
	Source   string
	Title    string
	Parsed   int
	New      []domain.ClassifiedEntry
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:     deps.Source,
		extractor:  deps.Extractor,
		parser:     deps.Parser,
		classifier: deps.Classifier,
		store:      deps.Store,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        deps.Now,
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.parser == nil {
		p.parser = parse.New(p.logger)
	}
	if p.classifier == nil {
		p.classifier = classify.New()
	}
	if p.now == nil {
		p.now = time.Now
	}
	p.logger = p.logger.With("component", "pipeline")
	return p
}

// Run executes the pipeline once for req.Category. The first failing stage
// aborts the run and nothing is persisted. A run with no new entries is a
// success.
func (p *Pipeline) Run(ctx context.Context, req scanner.Request) (Result, error) {
	result := Result{RunID: uuid.NewString(), Category: req.Category}
	logger := p.logger.With("run_id", result.RunID, "category", req.Category)
	category := string(req.Category)

	if p.source == nil || p.extractor == nil || p.store == nil {
		return result, errors.New("pipeline is not fully configured")
	}

	seen, err := p.store.Load(ctx)
	if err != nil {
		p.metrics.ObserveRun(category, metrics.OutcomeStore)
		return result, fmt.Errorf("load seen set: %w", err)
	}

	started := p.now()
	release, err := p.source.Fetch(ctx, req)
	p.metrics.ObserveFetch(category, p.now().Sub(started))
	if err != nil {
		p.metrics.ObserveRun(category, outcomeFor(err))
		return result, fmt.Errorf("fetch: %w", err)
	}
	result.Source, result.Title = release.Source, release.Title
	logger.Info("release fetched", "source", release.Source, "title", release.Title, "bytes", len(release.Content))

	text, err := p.extractor.Extract(release)
	if err != nil {
		p.metrics.ObserveRun(category, outcomeFor(err))
		return result, fmt.Errorf("extract: %w", err)
	}

	seq, err := p.parser.Parse(text)
	if err != nil {
		p.metrics.ObserveRun(category, outcomeFor(err))
		return result, fmt.Errorf("parse: %w", err)
	}

	var classified []domain.ClassifiedEntry
	for entry := range seq.All() {
		classified = append(classified, p.classifier.Classify(entry))
	}
	result.Parsed = len(classified)
	p.metrics.AddParsed(category, len(classified))

	fresh, next := dedup.FilterNew(classified, seen, p.now())
	if len(fresh) > 0 {
		if err := p.store.Save(ctx, next); err != nil {
			p.metrics.ObserveRun(category, metrics.OutcomeStore)
			return result, fmt.Errorf("save seen set: %w", err)
		}
	}
	result.New = fresh

	for _, e := range fresh {
		p.metrics.AddNew(category, e.SubKind)
	}
	p.metrics.SetSeen(category, next.Len())
	p.metrics.ObserveRun(category, metrics.OutcomeSuccess)

	logger.Info("run completed", "lines", len(text.Lines), "parsed", result.Parsed, "new", len(fresh))

	if p.notifier != nil && len(fresh) > 0 {
		if err := p.notifier.PublishDigest(ctx, buildDigestMessage(result)); err != nil {
			logger.Warn("publish digest", "error", err)
		}
	}

	return result, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnavailable), errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeFetch
	case errors.Is(err, domain.ErrCorrupt):
		return metrics.OutcomeExtract
	case errors.Is(err, domain.ErrNoEntries):
		return metrics.OutcomeParse
	default:
		return metrics.OutcomeStore
	}
}
