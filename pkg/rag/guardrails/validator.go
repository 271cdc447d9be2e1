package guardrails

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// RiskLevel is the coarse severity signal attached to a validation verdict.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ValidationResult is the structured outcome of input validation.
type ValidationResult struct {
	IsValid    bool
	Reason     string
	HasPII     bool
	IsRelevant bool
	RiskLevel  RiskLevel
}

// Config bounds and tunes the validator.
type Config struct {
	MinQuestionLength int
	MaxQuestionLength int
	// UseLLMRelevance enables the capability-assisted relevance check for
	// questions the lexical heuristics cannot decide.
	UseLLMRelevance bool
}

// DefaultConfig returns the validator defaults.
func DefaultConfig() Config {
	return Config{
		MinQuestionLength: 5,
		MaxQuestionLength: 500,
		UseLLMRelevance:   true,
	}
}

// SafetyValidator validates clinical questions before any expensive pipeline
// work happens: length bounds, PII detection, topical relevance. Checks run
// in fixed order and short-circuit on the first failure.
type SafetyValidator struct {
	config        Config
	llmProvider   llm.LLMProvider // optional; nil disables the assisted check
	verdictCache  *cache.Cache    // relevance verdicts per distinct question text
	logger        logger.ILogger
}

func NewSafetyValidator(config Config, llmProvider llm.LLMProvider, log logger.ILogger) *SafetyValidator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &SafetyValidator{
		config:       config,
		llmProvider:  llmProvider,
		verdictCache: cache.New(15*time.Minute, 5*time.Minute),
		logger:       log,
	}
}

// Validate runs all checks in sequence: length, PII, topical relevance.
func (v *SafetyValidator) Validate(ctx context.Context, question string) ValidationResult {
	// 1. Length
	length := len([]rune(strings.TrimSpace(question)))
	if length < v.config.MinQuestionLength || length > v.config.MaxQuestionLength {
		return ValidationResult{
			IsValid:    false,
			Reason:     fmt.Sprintf("Pergunta deve ter entre %d e %d caracteres", v.config.MinQuestionLength, v.config.MaxQuestionLength),
			IsRelevant: true,
			RiskLevel:  RiskLow,
		}
	}

	// 2. PII detection (first match wins)
	if piiType, found := DetectPII(question); found {
		v.logger.Warn("guardrails", "PII detected in question", map[string]interface{}{"pii_type": string(piiType)})
		return ValidationResult{
			IsValid:    false,
			Reason:     fmt.Sprintf("Detectadas informações pessoais (%s) na pergunta. Remova dados sensíveis.", piiType),
			HasPII:     true,
			IsRelevant: true,
			RiskLevel:  RiskHigh,
		}
	}

	// 3. Topical relevance
	if !v.isMedicallyRelevant(ctx, question) {
		return ValidationResult{
			IsValid:    false,
			Reason:     "Pergunta não é relevante ao contexto médico. Formule uma pergunta sobre saúde ou protocolos clínicos.",
			IsRelevant: false,
			RiskLevel:  RiskMedium,
		}
	}

	return ValidationResult{IsValid: true, IsRelevant: true, RiskLevel: RiskLow}
}

// isMedicallyRelevant decides topical relevance. Lexical heuristics first:
// an explicit non-medical topic rejects, a medical keyword accepts. For
// questions with neither signal the LLM-assisted check kicks in; on provider
// failure the policy is permissive, since grounding validation downstream is
// the second line of defense.
func (v *SafetyValidator) isMedicallyRelevant(ctx context.Context, question string) bool {
	qLower := strings.ToLower(question)

	for _, topic := range nonMedicalTopics {
		if strings.Contains(qLower, topic) {
			v.logger.Debug("guardrails", "Non-medical topic detected", map[string]interface{}{"topic": topic})
			return false
		}
	}

	for _, keyword := range medicalKeywords {
		if strings.Contains(qLower, keyword) {
			return true
		}
	}

	if !v.config.UseLLMRelevance || v.llmProvider == nil {
		// Lexical-only mode: no medical signal means out of scope
		return false
	}

	return v.llmRelevanceVerdict(ctx, question)
}

func (v *SafetyValidator) llmRelevanceVerdict(ctx context.Context, question string) bool {
	if verdict, found := v.verdictCache.Get(question); found {
		return verdict.(bool)
	}

	prompt := fmt.Sprintf(`Você é o filtro de entrada de um sistema hospitalar.
A pergunta abaixo diz respeito a procedimentos médicos, enfermagem, protocolos hospitalares, medicamentos ou tratamentos?
Responda apenas "sim" ou "nao".

Pergunta: %s`, question)

	answer, err := v.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		v.logger.Warn("guardrails", "Relevance check failed, defaulting to relevant", map[string]interface{}{"error": err.Error()})
		return true
	}

	verdict := strings.Contains(strings.ToLower(answer), "sim")
	v.verdictCache.Set(question, verdict, cache.DefaultExpiration)
	return verdict
}
