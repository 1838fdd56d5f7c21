// internal/orchestrator/orchestrator.go

// Package orchestrator sequences the recommendation pipeline: extraction,
// compliance, routing, the parallel manager fan-out, the online fallback,
// policy validation and aggregation. Any stage failure short-circuits to
// the error handler; contained manager failures do not.
//
// The orchestrator owns the session state for the whole run. Manager
// goroutines send their results over a channel and the orchestrator alone
// writes them into the state, so the fan-out needs no locks.
package orchestrator

import (
	"context"
	"time"

	"card-advisor/internal/common/errors"
	"card-advisor/internal/common/logger"
	"card-advisor/internal/common/metrics"
	"card-advisor/internal/common/observability"
	"card-advisor/internal/models"
	extractrequest "card-advisor/internal/stages/extract-request"
	filtercompliance "card-advisor/internal/stages/filter-compliance"
	handleerror "card-advisor/internal/stages/handle-error"
	planfanout "card-advisor/internal/stages/plan-fanout"
	scorecards "card-advisor/internal/stages/score-cards"
	searchonline "card-advisor/internal/stages/search-online"
	summarizeresults "card-advisor/internal/stages/summarize-results"
	validatepolicy "card-advisor/internal/stages/validate-policy"

	"github.com/google/uuid"
)

// Terminal labels for session metrics.
const (
	TerminalRecommendations = "recommendations"
	TerminalEmpty           = "empty"
	TerminalError           = "error"
)

// Input is one user request to the pipeline.
type Input struct {
	Query   string         `json:"query"`
	Locale  string         `json:"locale"`
	Consent models.Consent `json:"consent"`
}

// Deps carries the stage handlers and telemetry the pipeline runs with.
// Managers are keyed by category; Fallback and Observability may be nil.
type Deps struct {
	Extract       *extractrequest.Handler
	Compliance    *filtercompliance.Handler
	Router        *planfanout.Handler
	Managers      map[string]*scorecards.Handler
	Fallback      *searchonline.Handler
	Validator     *validatepolicy.Handler
	Summarizer    *summarizeresults.Handler
	ErrorHandler  *handleerror.Handler
	Sink          metrics.Sink
	Observability *observability.Observability
	Logger        logger.Logger

	// ManagerTimeout bounds each manager goroutine.
	ManagerTimeout time.Duration
}

type Pipeline struct {
	deps   Deps
	logger logger.Logger
}

func New(deps Deps) *Pipeline {
	if deps.Sink == nil {
		deps.Sink = metrics.NopSink{}
	}
	if deps.ManagerTimeout <= 0 {
		deps.ManagerTimeout = 5 * time.Second
	}
	return &Pipeline{
		deps:   deps,
		logger: deps.Logger.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// Run executes one session end to end. It always returns a terminal
// SessionResult: either a recommendation set (possibly empty) or an error
// report, never both.
func (p *Pipeline) Run(ctx context.Context, input *Input) *models.SessionResult {
	start := time.Now()
	state := &models.SessionState{
		SessionID: uuid.NewString(),
		Query:     input.Query,
		Locale:    input.Locale,
		Consent:   input.Consent,
	}
	log := p.logger.WithFields(map[string]interface{}{"sessionId": state.SessionID})
	log.Info("session started", map[string]interface{}{"locale": input.Locale})

	result := p.run(ctx, state, input, log)

	terminal := terminalLabel(result)
	metrics.SessionsTotal.WithLabelValues(terminal).Inc()
	if p.deps.Observability != nil {
		p.deps.Observability.RecordSessionProcessed(ctx, terminal)
		p.deps.Observability.RecordSessionDuration(ctx, time.Since(start), terminal)
	}

	log.Info("session finished", map[string]interface{}{
		"terminal": terminal,
		"duration": time.Since(start).String(),
	})
	return result
}

func (p *Pipeline) run(ctx context.Context, state *models.SessionState, input *Input, log logger.Logger) *models.SessionResult {
	// Extraction. Failures here are recorded and end the session; in
	// practice the keyword fallback inside the stage absorbs almost all
	// of them.
	request, err := p.extract(ctx, state, input)
	if err != nil {
		return p.fail(ctx, state, err)
	}

	// Compliance gate. A rejection is terminal and no manager runs.
	request, err = p.comply(ctx, state, request, input.Consent)
	if err != nil {
		return p.fail(ctx, state, err)
	}
	state.Request = request

	// Routing is total and never fails.
	state.Plan = p.plan(ctx, state, request)

	// Parallel manager fan-out.
	p.fanOut(ctx, state, request)
	if ctx.Err() != nil {
		cancelErr := errors.NewSessionCancelledError(scorecards.StageName)
		state.RecordError(scorecards.StageName, string(errors.ErrCodeSessionCancelled), cancelErr.Error())
		return p.fail(ctx, state, cancelErr)
	}

	// Online fallback for managers that succeeded with nothing to show.
	p.fallback(ctx, state, request)

	// Policy screen and aggregation.
	validated := p.validate(ctx, state, request)
	set := p.summarize(ctx, state, validated)

	return &models.SessionResult{
		SessionID:       state.SessionID,
		Recommendations: set,
		Trace:           state.Trace,
	}
}

func (p *Pipeline) extract(ctx context.Context, state *models.SessionState, input *Input) (*models.StructuredRequest, error) {
	start := time.Now()
	request, err := p.deps.Extract.Execute(ctx, &extractrequest.Input{
		Query:  input.Query,
		Locale: input.Locale,
	})
	p.record(extractrequest.StageName, start, err)
	if err != nil {
		state.RecordError(extractrequest.StageName, string(errors.CodeOf(err)), err.Error())
		return nil, err
	}
	state.RecordStage(extractrequest.StageName)
	return request, nil
}

func (p *Pipeline) comply(ctx context.Context, state *models.SessionState, request *models.StructuredRequest, consent models.Consent) (*models.StructuredRequest, error) {
	start := time.Now()
	filtered, err := p.deps.Compliance.Execute(ctx, request, consent)
	p.record(filtercompliance.StageName, start, err)
	if err != nil {
		state.RecordError(filtercompliance.StageName, string(errors.CodeOf(err)), err.Error())
		return nil, err
	}
	state.RecordStage(filtercompliance.StageName)
	return filtered, nil
}

func (p *Pipeline) plan(ctx context.Context, state *models.SessionState, request *models.StructuredRequest) models.FanoutPlan {
	start := time.Now()
	plan := p.deps.Router.Execute(ctx, request)
	p.record(planfanout.StageName, start, nil)
	state.RecordStage(planfanout.StageName)
	return plan
}

// fanOut runs one goroutine per planned manager. Each result lands in its
// own slot; failed managers are recorded as contained errors and the
// session continues.
func (p *Pipeline) fanOut(ctx context.Context, state *models.SessionState, request *models.StructuredRequest) {
	start := time.Now()
	results := make(chan models.ManagerResult, len(state.Plan))

	launched := 0
	for _, category := range state.Plan {
		manager, ok := p.deps.Managers[category]
		if !ok {
			state.RecordError(scorecards.StageName, string(errors.ErrCodeManagerFailed),
				"no manager registered for category "+category)
			continue
		}
		launched++
		go func(manager *scorecards.Handler) {
			mctx, cancel := context.WithTimeout(ctx, p.deps.ManagerTimeout)
			defer cancel()
			results <- manager.Execute(mctx, request)
		}(manager)
	}

	for i := 0; i < launched; i++ {
		result := <-results
		state.PutResult(result)
		if !result.Success {
			state.RecordError(scorecards.StageName, string(errors.ErrCodeManagerFailed), result.ErrorDetail)
		}
	}

	p.record(scorecards.StageName, start, nil)
	state.RecordStage(scorecards.StageName)
}

// fallback runs the online search once when at least one manager succeeded
// with zero results. Its failure is contained like a manager's.
func (p *Pipeline) fallback(ctx context.Context, state *models.SessionState, request *models.StructuredRequest) {
	if p.deps.Fallback == nil {
		return
	}

	var empty []string
	for _, category := range state.Plan {
		if result, ok := state.ManagerResults[category]; ok && result.Success && result.TotalFound == 0 {
			empty = append(empty, category)
		}
	}
	if len(empty) == 0 {
		return
	}

	start := time.Now()
	result := p.deps.Fallback.Execute(ctx, request, empty)
	p.record(searchonline.StageName, start, nil)
	state.PutResult(result)
	if !result.Success {
		state.RecordError(searchonline.StageName, string(errors.ErrCodeServiceUnavailable), result.ErrorDetail)
	}
	state.RecordStage(searchonline.StageName)
}

func (p *Pipeline) validate(ctx context.Context, state *models.SessionState, request *models.StructuredRequest) map[string]models.ManagerResult {
	start := time.Now()
	validated := p.deps.Validator.Execute(ctx, request, state.ManagerResults)
	p.record(validatepolicy.StageName, start, nil)
	state.RecordStage(validatepolicy.StageName)
	return validated
}

func (p *Pipeline) summarize(ctx context.Context, state *models.SessionState, validated map[string]models.ManagerResult) *models.FinalRecommendationSet {
	start := time.Now()
	set := p.deps.Summarizer.Execute(ctx, state.Plan, validated)
	p.record(summarizeresults.StageName, start, nil)
	state.RecordStage(summarizeresults.StageName)
	return set
}

// fail routes the session to the error handler and produces the terminal
// error report.
func (p *Pipeline) fail(ctx context.Context, state *models.SessionState, terminal error) *models.SessionResult {
	start := time.Now()
	// The report must be produced even for a cancelled context, so the
	// error handler runs detached from the session context.
	reportCtx := ctx
	if ctx.Err() != nil {
		reportCtx = context.Background()
	}
	report := p.deps.ErrorHandler.Execute(reportCtx, terminal, state.Errors)
	p.record(handleerror.StageName, start, nil)
	state.RecordStage(handleerror.StageName)

	return &models.SessionResult{
		SessionID: state.SessionID,
		Error:     report,
		Trace:     state.Trace,
	}
}

func (p *Pipeline) record(stage string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	p.deps.Sink.Record(stage, time.Since(start), outcome)
}

func terminalLabel(result *models.SessionResult) string {
	switch {
	case result.Error != nil:
		return TerminalError
	case result.Recommendations != nil && result.Recommendations.Empty():
		return TerminalEmpty
	default:
		return TerminalRecommendations
	}
}
