package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/pkg/llm/resilience"
	"clinical-assistant-be/pkg/rag/grader"
	"clinical-assistant-be/pkg/rag/grounding"
	"clinical-assistant-be/pkg/rag/guardrails"
	"clinical-assistant-be/pkg/rag/response"
	"clinical-assistant-be/pkg/rag/rewrite"
	"clinical-assistant-be/pkg/search"
	"clinical-assistant-be/pkg/store"

	"github.com/google/uuid"
)

// Config tunes one orchestrator instance.
type Config struct {
	MaxLoops        int           // reformulation retry ceiling
	TopK            int           // documents requested per retrieval
	SearchTimeout   time.Duration // per document-search call
	GenerateTimeout time.Duration // per generation call
	RewriteTimeout  time.Duration // per rewrite call
}

// DefaultConfig returns the orchestration defaults.
func DefaultConfig() Config {
	return Config{
		MaxLoops:        3,
		TopK:            10,
		SearchTimeout:   15 * time.Second,
		GenerateTimeout: 60 * time.Second,
		RewriteTimeout:  20 * time.Second,
	}
}

// Orchestrator sequences the pipeline stages and decides branching:
//
//	start → validating → {rejected | retrieving} → grading →
//	{generating | rewriting} → generating → validating_grounding →
//	{accepted | rewriting | degraded_accept}
//
// Every capability lands here through explicit dependency injection so each
// stage is testable with stub providers.
type Orchestrator struct {
	validator *guardrails.SafetyValidator
	searcher  search.DocumentSearcher
	grader    *grader.DocumentGrader
	generator *response.Generator
	grounding *grounding.Validator
	rewriter  *rewrite.QueryRewriter
	config    Config
	logger    logger.ILogger
}

func NewOrchestrator(
	validator *guardrails.SafetyValidator,
	searcher search.DocumentSearcher,
	docGrader *grader.DocumentGrader,
	generator *response.Generator,
	groundingValidator *grounding.Validator,
	rewriter *rewrite.QueryRewriter,
	config Config,
	log logger.ILogger,
) *Orchestrator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if config.MaxLoops < 0 {
		config.MaxLoops = 0
	}
	return &Orchestrator{
		validator: validator,
		searcher:  searcher,
		grader:    docGrader,
		generator: generator,
		grounding: groundingValidator,
		rewriter:  rewriter,
		config:    config,
		logger:    log,
	}
}

// Fixed user-facing message templates. Reasons are category names, never raw
// matched content.
const (
	refusalTemplate            = "Desculpe, sou um assistente médico. Não posso responder sobre esse tema. (%s)"
	serviceUnavailableTemplate = "O serviço de geração de respostas está temporariamente indisponível. Tente novamente em instantes. (ref: %s)"
	degradedCaveat             = "\n\n⚠️ Atenção: não foi possível confirmar esta resposta nos protocolos internos. Valide as informações antes de aplicar qualquer conduta."
)

// Run executes one full pipeline pass for a question. The returned error is
// reserved for contract violations and infrastructure collapse; every policy
// outcome (rejection, degraded acceptance, service unavailable) comes back
// as a FinalResult.
func (o *Orchestrator) Run(ctx context.Context, question string, history []store.ChatTurn) (*FinalResult, error) {
	if o.validator == nil || o.searcher == nil || o.grader == nil || o.generator == nil || o.grounding == nil {
		return nil, fmt.Errorf("orchestrator wired incompletely: all stage dependencies are required")
	}

	correlationID := uuid.NewString()
	state := NewState(question, history, o.config.MaxLoops)

	o.logger.Info("pipeline", "Run started", map[string]interface{}{
		"correlation_id": correlationID,
		"max_loops":      state.MaxLoops,
	})

	// --- STAGE: validating ---
	verdict := o.validator.Validate(ctx, state.Question)
	state.IsSafe = verdict.IsValid
	state.RiskLevel = verdict.RiskLevel

	if !verdict.IsValid {
		// Terminal rejection: fixed template, no search or generation calls.
		state.Generation = fmt.Sprintf(refusalTemplate, verdict.Reason)
		o.logger.Warn("pipeline", "Question rejected by safety validator", map[string]interface{}{
			"correlation_id": correlationID,
			"has_pii":        verdict.HasPII,
			"is_relevant":    verdict.IsRelevant,
		})
		return o.finalize(state, StatusRejected, correlationID), nil
	}

	for {
		// --- STAGE: retrieving ---
		state.Documents = o.retrieve(ctx, state.Question, correlationID)

		// --- STAGE: grading ---
		state.Documents = o.grader.Grade(ctx, state.Question, state.Documents)
		o.logger.Debug("pipeline", "Documents graded", map[string]interface{}{
			"correlation_id": correlationID,
			"kept":           len(state.Documents),
			"loop_count":     state.LoopCount,
		})

		if len(state.Documents) == 0 && state.LoopCount < state.MaxLoops {
			// grading → rewriting: reformulate and retry retrieval.
			o.reformulate(ctx, state, correlationID)
			continue
		}
		// Empty set at the loop ceiling falls open to generation without
		// evidence; the generator then produces a "cannot answer" reply.

		// --- STAGE: generating ---
		generation, err := o.generate(ctx, state)
		if err != nil {
			// Transport retries and the circuit breaker live below this
			// call; an error here means the backend is genuinely gone.
			state.Generation = fmt.Sprintf(serviceUnavailableTemplate, correlationID)
			state.GroundingStatus = grounding.StatusValidationError
			o.logger.Error("pipeline", "Generation backend unavailable", map[string]interface{}{
				"correlation_id": correlationID,
				"circuit_open":   errors.Is(err, resilience.ErrCircuitOpen),
				"error":          err.Error(),
			})
			return o.finalize(state, StatusRejected, correlationID), nil
		}
		state.Generation = generation

		// --- STAGE: validating_grounding ---
		state.GroundingStatus = o.grounding.Check(ctx, state.Generation, state.Documents)
		o.logger.Info("pipeline", "Grounding checked", map[string]interface{}{
			"correlation_id": correlationID,
			"status":         string(state.GroundingStatus),
			"loop_count":     state.LoopCount,
		})

		if state.GroundingStatus.Accepting() {
			return o.finalize(state, StatusAccepted, correlationID), nil
		}

		if state.LoopCount < state.MaxLoops {
			// validating_grounding → rewriting: try again with a better query.
			o.reformulate(ctx, state, correlationID)
			continue
		}

		// Loop budget exhausted while still ungrounded: return the answer
		// with an explicit caveat instead of looping forever.
		state.Generation += degradedCaveat
		return o.finalize(state, StatusDegraded, correlationID), nil
	}
}

// retrieve runs document search with a timeout. A search failure (including
// exhausted transport retries) degrades to an empty candidate set, which the
// grading branch then treats like any other zero-evidence situation.
func (o *Orchestrator) retrieve(ctx context.Context, question, correlationID string) []store.Document {
	searchCtx, cancel := context.WithTimeout(ctx, o.config.SearchTimeout)
	defer cancel()

	docs, err := o.searcher.Search(searchCtx, question, o.config.TopK)
	if err != nil {
		o.logger.Warn("pipeline", "Document search failed, treating as empty result", map[string]interface{}{
			"correlation_id": correlationID,
			"error":          err.Error(),
		})
		return nil
	}

	o.logger.Debug("pipeline", "Documents retrieved", map[string]interface{}{
		"correlation_id": correlationID,
		"count":          len(docs),
	})
	return docs
}

func (o *Orchestrator) generate(ctx context.Context, state *State) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, o.config.GenerateTimeout)
	defer cancel()

	return o.generator.Generate(genCtx, state.Question, state.Documents, state.ChatHistory)
}

// reformulate rewrites the working question and spends one loop attempt.
// The loop counter advances even when the rewriter fails, so a broken
// rewriter cannot stall termination. OriginalQuestion is never touched.
func (o *Orchestrator) reformulate(ctx context.Context, state *State, correlationID string) {
	state.LoopCount++

	if o.rewriter == nil {
		return
	}

	rewriteCtx, cancel := context.WithTimeout(ctx, o.config.RewriteTimeout)
	defer cancel()

	rewritten, err := o.rewriter.Rewrite(rewriteCtx, state.OriginalQuestion, state.Question)
	if err != nil {
		o.logger.Warn("pipeline", "Query rewrite failed, retrying with current question", map[string]interface{}{
			"correlation_id": correlationID,
			"error":          err.Error(),
		})
		return
	}

	o.logger.Debug("pipeline", "Question reformulated", map[string]interface{}{
		"correlation_id": correlationID,
		"loop_count":     state.LoopCount,
	})
	state.Question = rewritten
}

func (o *Orchestrator) finalize(state *State, status ResultStatus, correlationID string) *FinalResult {
	var sources []string
	if status != StatusRejected {
		sources = store.Sources(state.Documents)
	}

	return &FinalResult{
		Status:          status,
		Answer:          state.Generation,
		CitedSources:    sources,
		GroundingStatus: state.GroundingStatus,
		RiskLevel:       state.RiskLevel,
		LoopCount:       state.LoopCount,
		CorrelationID:   correlationID,
	}
}
