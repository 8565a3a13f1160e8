package main

import (
	"context"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/db"
	"github.com/jonathan/strategy-profiler/internal/mailer"
	"github.com/jonathan/strategy-profiler/internal/observability"
	"github.com/jonathan/strategy-profiler/internal/pipeline"
	"github.com/jonathan/strategy-profiler/internal/rendering"
)

// core is the questionnaire pipeline shared by serve and score.
type core struct {
	catalog   *catalog.Catalog
	reference *catalog.Reference
	evaluator *pipeline.Evaluator
}

func buildCore(metrics *observability.Metrics) (*core, error) {
	cat := catalog.New()
	ref := catalog.LoadReference(cfg.ReferencePath, logger)

	var opts []rendering.Option
	if cfg.TemplatePath != "" {
		opts = append(opts, rendering.WithTemplateFile(cfg.TemplatePath))
	}
	renderer, err := rendering.NewRenderer(ref, cat, opts...)
	if err != nil {
		return nil, err
	}

	return &core{
		catalog:   cat,
		reference: ref,
		evaluator: pipeline.NewEvaluator(cat, ref, renderer, pipeline.EvaluatorOptions{
			Logger:  logger,
			Metrics: metrics,
		}),
	}, nil
}

func openStore(ctx context.Context) (db.Store, error) {
	return db.Open(ctx, cfg.Database.URL, cfg.Database.SQLitePath, logger)
}

func newMailer() *mailer.Mailer {
	return mailer.New(cfg.SMTP, mailer.WithLogger(logger))
}
