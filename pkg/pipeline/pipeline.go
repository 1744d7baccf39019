// Package pipeline sequences one evaluation run: the provider call, then the
// deterministic reconciliation of its answer against the catalogue.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/user/regnav/pkg/engine"
	"github.com/user/regnav/pkg/locator"
	"github.com/user/regnav/pkg/report"
	"golang.org/x/sync/errgroup"
)

// Stage is the last stage a run completed
type Stage string

const (
	StageStart             Stage = "start"
	StageProviderCalled    Stage = "provider_called"
	StageOverlaysApplied   Stage = "overlays_applied"
	StageRemediationMapped Stage = "remediation_mapped"
	StageScored            Stage = "scored"
	StageQuotesLocated     Stage = "quotes_located"
	StageReportAssembled   Stage = "report_assembled"
	StageDone              Stage = "done"
)

// Run outcomes as recorded in metrics
const (
	OutcomeSuccess        = "success"
	OutcomeIngestionError = "ingestion_error"
	OutcomeProviderError  = "provider_error"
	OutcomeError          = "error"
)

// StageError records where a run aborted
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Run is the envelope of one evaluation. Report is nil unless Stage is done.
type Run struct {
	ID     string                   `json:"id"`
	Stage  Stage                    `json:"stage"`
	Report *engine.EvaluationReport `json:"report,omitempty"`
}

type Pipeline struct {
	catalogue *engine.Catalogue
	provider  engine.FindingsProvider
	overlays  []engine.OverlayRule
	locator   *locator.Locator
	logger    hclog.Logger
	metrics   *Metrics
	timeout   time.Duration
}

type Option func(*Pipeline)

func WithLogger(l hclog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func WithLocator(l *locator.Locator) Option {
	return func(p *Pipeline) { p.locator = l }
}

// WithOverlays replaces the default overlay rules
func WithOverlays(rules []engine.OverlayRule) Option {
	return func(p *Pipeline) { p.overlays = rules }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTimeout bounds the provider call; zero means no bound
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// New creates a pipeline over an immutable catalogue. The pipeline holds no
// per-run state and may serve concurrent runs.
func New(cat *engine.Catalogue, provider engine.FindingsProvider, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalogue: cat,
		provider:  provider,
		overlays:  engine.DefaultOverlays(),
		locator:   locator.New(),
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalogue returns the catalogue the pipeline evaluates against
func (p *Pipeline) Catalogue() *engine.Catalogue {
	return p.catalogue
}

// Run evaluates one submission. On failure the returned Run still carries
// the id and the last completed stage, and the error is a *StageError
// wrapping engine.ErrIngestion or engine.ErrProvider.
func (p *Pipeline) Run(ctx context.Context, sub engine.Submission) (*Run, error) {
	run := &Run{ID: uuid.NewString(), Stage: StageStart}
	t := p.track(run, p.logger.With("run_id", run.ID))
	t.logger.Info("evaluation started")

	if sub.Empty() {
		err := &StageError{Stage: StageStart, Err: fmt.Errorf("%w: no extractable text in any document", engine.ErrIngestion)}
		return run, t.fail(err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	resp, err := p.provider.Evaluate(ctx, sub.Texts(), p.catalogue.Requirements())
	if err != nil {
		if !errors.Is(err, engine.ErrProvider) {
			err = fmt.Errorf("%w: %v", engine.ErrProvider, err)
		}
		return run, t.fail(&StageError{Stage: StageProviderCalled, Err: err})
	}

	rep, err := p.reconcile(resp, sub, t)
	if err != nil {
		return run, t.fail(err)
	}
	run.Report = rep
	t.advance(StageDone)
	p.metrics.runFinished(OutcomeSuccess, rep.Score)
	t.logger.Info("evaluation finished", "score", rep.Score, "band", report.Band(rep.Score))
	return run, nil
}

// Reconcile is the deterministic part of a run. Given the same submission
// and provider response it returns byte-identical reports.
func (p *Pipeline) Reconcile(resp *engine.ProviderResponse, sub engine.Submission) (*engine.EvaluationReport, error) {
	return p.reconcile(resp, sub, p.track(nil, p.logger))
}

func (p *Pipeline) reconcile(resp *engine.ProviderResponse, sub engine.Submission, t *tracker) (*engine.EvaluationReport, error) {
	findings, recommendations, err := engine.Normalize(resp, p.catalogue, t.logger)
	if err != nil {
		return nil, &StageError{Stage: StageProviderCalled, Err: err}
	}
	t.advance(StageProviderCalled)

	findings = engine.ApplyOverlays(findings, sub.Corpus(), p.overlays, t.logger)
	t.advance(StageOverlaysApplied)

	findings = engine.MapRemediation(findings, p.catalogue)
	t.advance(StageRemediationMapped)

	score := engine.Score(findings, p.catalogue.IDs(), p.catalogue.Weights())
	t.advance(StageScored)

	docs := make([]engine.DocumentAnnotation, len(engine.Documents))
	var g errgroup.Group
	for i, doc := range engine.Documents {
		i, doc := i, doc
		g.Go(func() error {
			docs[i] = p.annotate(doc, sub.Pages[doc], findings, t.logger)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &StageError{Stage: StageQuotesLocated, Err: err}
	}
	t.advance(StageQuotesLocated)

	if recommendations == nil {
		recommendations = []string{}
	}
	rep := &engine.EvaluationReport{
		Score:           score,
		Findings:        findings,
		Recommendations: recommendations,
		Documents:       docs,
	}
	t.advance(StageReportAssembled)
	return rep, nil
}

// annotate builds the highlight instructions and trailer summary for one
// document. Unlocatable quotes keep their instruction with no regions.
func (p *Pipeline) annotate(doc engine.Document, pages []string, findings []engine.Finding, logger hclog.Logger) engine.DocumentAnnotation {
	ann := engine.DocumentAnnotation{
		Document:   doc,
		Title:      doc.Title(),
		Highlights: []engine.HighlightInstruction{},
		Summary:    report.DocumentSummary(doc, findings),
	}

	for _, f := range findings {
		if f.FoundInDocument != doc || f.Status == engine.StatusCompliant || f.KeyQuote == "" {
			continue
		}
		res := p.locator.Locate(f.KeyQuote, pages)
		p.metrics.quoteLocated(res.Strategy)
		if len(res.Regions) == 0 {
			logger.Debug("quote not located", "document", doc, "id", f.RequirementID)
		}

		details := f.Details
		if details == "" {
			details = "N/A"
		}
		ann.Highlights = append(ann.Highlights, engine.HighlightInstruction{
			RequirementID: f.RequirementID,
			Document:      doc,
			QuoteText:     f.KeyQuote,
			ColorClass:    f.Status,
			Color:         engine.HighlightColor(f.Status),
			Comment:       "Gap: " + details,
			Regions:       res.Regions,
			Strategy:      res.Strategy,
		})
	}
	return ann
}

type tracker struct {
	run     *Run
	logger  hclog.Logger
	metrics *Metrics
	last    time.Time
}

func (p *Pipeline) track(run *Run, logger hclog.Logger) *tracker {
	return &tracker{run: run, logger: logger, metrics: p.metrics, last: time.Now()}
}

func (t *tracker) advance(stage Stage) {
	now := time.Now()
	t.metrics.observeStage(stage, now.Sub(t.last))
	t.last = now
	if t.run != nil {
		t.run.Stage = stage
	}
	t.logger.Debug("stage reached", "stage", stage)
}

func (t *tracker) fail(err error) error {
	outcome := OutcomeError
	switch {
	case errors.Is(err, engine.ErrIngestion):
		outcome = OutcomeIngestionError
	case errors.Is(err, engine.ErrProvider):
		outcome = OutcomeProviderError
	}
	t.metrics.runFinished(outcome, 0)
	t.logger.Error("evaluation failed", "error", err)
	return err
}
