package pipeline

import (
	"clinical-assistant-be/pkg/rag/grounding"
	"clinical-assistant-be/pkg/rag/guardrails"
	"clinical-assistant-be/pkg/store"
)

// State is the single mutable record threaded through every pipeline stage.
// One State is created fresh per incoming question, owned exclusively by the
// orchestrator for the duration of the run, and discarded at a terminal
// state.
type State struct {
	// Question is the current working question; it may be rewritten across
	// reformulation attempts.
	Question string

	// OriginalQuestion is captured once at pipeline entry and never mutated.
	OriginalQuestion string

	// ChatHistory is a local copy of the session history; the caller-owned
	// slice is never mutated.
	ChatHistory []store.ChatTurn

	// Documents is the current candidate evidence set, replaced wholesale at
	// each retrieval/grading stage. By the time generation runs this always
	// holds the graded (filtered) set.
	Documents []store.Document

	// Generation is the latest produced answer; empty until the generation
	// stage runs. On reject states it holds the user-facing refusal message.
	Generation string

	IsSafe    bool
	RiskLevel guardrails.RiskLevel

	GroundingStatus grounding.Status

	// LoopCount counts reformulation attempts taken so far. The orchestrator
	// never routes to the rewriter once LoopCount == MaxLoops.
	LoopCount int
	MaxLoops  int
}

// NewState constructs the initial state for a run. History is copied so the
// pipeline never aliases the caller's session slice.
func NewState(question string, history []store.ChatTurn, maxLoops int) *State {
	historyCopy := make([]store.ChatTurn, len(history))
	copy(historyCopy, history)

	return &State{
		Question:         question,
		OriginalQuestion: question,
		ChatHistory:      historyCopy,
		Documents:        nil,
		Generation:       "",
		IsSafe:           true,
		RiskLevel:        guardrails.RiskLow,
		GroundingStatus:  grounding.StatusUnchecked,
		LoopCount:        0,
		MaxLoops:         maxLoops,
	}
}

// ResultStatus is the terminal outcome of a pipeline run.
type ResultStatus string

const (
	// StatusAccepted is the happy path: the answer passed grounding.
	StatusAccepted ResultStatus = "accepted"
	// StatusRejected means input validation refused the question, or the
	// generation backend was unavailable; no grounded answer exists.
	StatusRejected ResultStatus = "rejected"
	// StatusDegraded means the loop budget was exhausted while grounding
	// still reported ungrounded; the last answer is returned with an
	// explicit caveat, never silently presented as a clean success.
	StatusDegraded ResultStatus = "degraded"
)

// FinalResult is what the orchestrator hands back to the session layer.
type FinalResult struct {
	Status          ResultStatus     `json:"status"`
	Answer          string           `json:"answer"`
	CitedSources    []string         `json:"cited_sources"`
	GroundingStatus grounding.Status `json:"grounding_status"`
	RiskLevel       guardrails.RiskLevel `json:"risk_level"`
	LoopCount       int              `json:"loop_count"`
	// CorrelationID identifies the run in logs and audit events.
	CorrelationID string `json:"correlation_id"`
}
