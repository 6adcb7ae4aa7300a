package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/On-Jun9/MetaSpy/internal/config"
	"github.com/On-Jun9/MetaSpy/internal/geo"
	"github.com/On-Jun9/MetaSpy/internal/log"
	"github.com/On-Jun9/MetaSpy/internal/metadata"
	"github.com/On-Jun9/MetaSpy/internal/scanner"
	"github.com/On-Jun9/MetaSpy/pkg/types"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Pipeline aggregates one record per analyzable input path.
type Pipeline struct {
	extractor        *metadata.Extractor
	cache            *metadata.Cache
	enricher         *geo.Enricher
	logger           *log.Logger
	jobs             int
	progressCallback ProgressCallback

	mu        sync.Mutex
	completed int
}

func New(cfg *config.Config, logger *log.Logger) (*Pipeline, error) {
	cache, err := metadata.NewCache(cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction cache: %w", err)
	}
	return NewWithExtractor(cfg, logger, metadata.New(cfg.ExtractTimeout), cache), nil
}

// NewWithExtractor shares an extractor and cache between pipelines. cache may be nil.
func NewWithExtractor(cfg *config.Config, logger *log.Logger, extractor *metadata.Extractor, cache *metadata.Cache) *Pipeline {
	if logger == nil {
		logger = log.Nop()
	}
	jobs := cfg.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Pipeline{
		extractor: extractor,
		cache:     cache,
		enricher:  geo.New(cfg.MapsURL),
		logger:    logger,
		jobs:      jobs,
	}
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.progressCallback = cb
}

type task struct {
	index    int
	entry    types.FileEntry
	provider metadata.Provider
}

// Run analyzes paths in order. Missing and unsupported inputs are warned about
// and skipped; every other input yields exactly one record, in input order.
// A canceled ctx turns unfinished files into failure records.
func (p *Pipeline) Run(ctx context.Context, paths []string) (types.Report, types.RunSummary) {
	summary := types.RunSummary{
		RunID:     uuid.NewString(),
		Inputs:    len(paths),
		StartTime: time.Now(),
	}
	p.logger.SetRunID(summary.RunID)
	p.logger.Info(fmt.Sprintf("Starting analysis of %d inputs", len(paths)))

	p.notify(ProgressUpdate{
		Type:    "status",
		Message: "Analyzing inputs...",
		Total:   len(paths),
	})

	var tasks []task
	for _, path := range paths {
		entry, err := scanner.Stat(path)
		if err != nil {
			summary.Missing++
			p.logger.Warn(fmt.Sprintf("❌ Error: File not found at '%s'", path))
			continue
		}

		provider := p.extractor.Dispatch(path)
		if provider == nil {
			summary.Unsupported++
			p.logger.Warn(fmt.Sprintf("⚠️ Warning: Unsupported file type for '%s'. Skipping.", path))
			continue
		}

		p.logger.Console("📄 Analyzing %s...", path)
		tasks = append(tasks, task{index: len(tasks), entry: entry, provider: provider})
	}

	report := make(types.Report, len(tasks))
	p.completed = 0

	if p.jobs == 1 {
		for _, t := range tasks {
			report[t.index] = p.analyze(ctx, t, len(tasks))
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.jobs)
		for _, t := range tasks {
			t := t
			g.Go(func() error {
				report[t.index] = p.analyze(ctx, t, len(tasks))
				return nil
			})
		}
		g.Wait()
	}

	for _, rec := range report {
		summary.Analyzed++
		if _, failed := rec.Failure(); failed {
			summary.Failed++
		}
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	p.logger.Info(fmt.Sprintf("Analysis finished: %d records, %d failed", summary.Analyzed, summary.Failed))

	p.notify(ProgressUpdate{
		Type:    "complete",
		Summary: &summary,
	})

	return report, summary
}

func (p *Pipeline) analyze(ctx context.Context, t task, total int) types.Record {
	start := time.Now()

	fields, cached := p.lookup(t.entry)
	if !cached {
		fields = p.extractor.Extract(ctx, t.provider, t.entry.Path)
		if p.cache != nil {
			p.cache.Add(t.entry, fields)
		}
	}

	rec := types.Record{File: t.entry.Path, Metadata: fields}
	if link, ok := p.enricher.Enrich(fields); ok {
		rec.Geolocation = link
	}
	p.logger.LogRecord(rec, time.Since(start))

	update := ProgressUpdate{
		Type:     "progress",
		Total:    total,
		Filename: t.entry.Name,
	}
	if cause, failed := rec.Failure(); failed {
		update.Error = cause
	}
	p.mu.Lock()
	p.completed++
	update.Current = p.completed
	p.notify(update)
	p.mu.Unlock()

	return rec
}

func (p *Pipeline) lookup(entry types.FileEntry) (*types.Fields, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.Get(entry)
}

func (p *Pipeline) notify(update ProgressUpdate) {
	if p.progressCallback != nil {
		p.progressCallback(update)
	}
}
