package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinical-assistant-be/pkg/llm"
	"clinical-assistant-be/pkg/rag/grader"
	"clinical-assistant-be/pkg/rag/grounding"
	"clinical-assistant-be/pkg/rag/guardrails"
	"clinical-assistant-be/pkg/rag/response"
	"clinical-assistant-be/pkg/rag/rewrite"
	"clinical-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher returns a fixed document set and counts calls.
type stubSearcher struct {
	docs  []store.Document
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, query string, k int) ([]store.Document, error) {
	s.calls++
	return s.docs, s.err
}

// stubLLM answers every Generate call with the same text and records prompts.
type stubLLM struct {
	answer  string
	err     error
	prompts []string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.answer, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.err
}

func testConfig(maxLoops int) Config {
	return Config{
		MaxLoops:        maxLoops,
		TopK:            5,
		SearchTimeout:   time.Second,
		GenerateTimeout: time.Second,
		RewriteTimeout:  time.Second,
	}
}

func lexicalValidator() *guardrails.SafetyValidator {
	cfg := guardrails.DefaultConfig()
	cfg.UseLLMRelevance = false
	return guardrails.NewSafetyValidator(cfg, nil, nil)
}

// newOrchestrator wires an orchestrator from stubs. The grounding validator
// runs without an embedder, so verdicts come from the keyword tier.
func newOrchestrator(searcher *stubSearcher, genLLM, rewriteLLM *stubLLM, maxLoops int) *Orchestrator {
	var rewriter *rewrite.QueryRewriter
	if rewriteLLM != nil {
		rewriter = rewrite.NewQueryRewriter(rewriteLLM)
	}

	return NewOrchestrator(
		lexicalValidator(),
		searcher,
		grader.NewDocumentGrader(grader.NewLexicalScorer(0.05), grader.PolicyFallbackUnfiltered),
		response.NewGenerator(genLLM, nil),
		grounding.NewValidator(nil, grounding.DefaultConfig(), nil),
		rewriter,
		testConfig(maxLoops),
		nil,
	)
}

func sepsisDoc() store.Document {
	return store.Document{
		Content:  "Protocolo de sepse: iniciar antibioticoterapia empírica na primeira hora após coleta de culturas.",
		Metadata: map[string]string{"source": "sepse.pdf"},
	}
}

func TestRunAcceptedHappyPath(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	genLLM := &stubLLM{answer: "O protocolo de sepse orienta iniciar antibioticoterapia empírica na primeira hora, após coleta de culturas."}

	o := newOrchestrator(searcher, genLLM, nil, 3)
	result, err := o.Run(context.Background(), "Qual o protocolo de sepse para adultos?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, result.Status)
	assert.Equal(t, grounding.StatusValidKeywords, result.GroundingStatus)
	assert.Equal(t, 0, result.LoopCount)
	assert.Equal(t, []string{"sepse.pdf"}, result.CitedSources)
	assert.Equal(t, genLLM.answer, result.Answer)
	assert.NotEmpty(t, result.CorrelationID)
}

func TestRunRejectsOffTopicWithoutSearching(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	genLLM := &stubLLM{answer: "irrelevante"}

	o := newOrchestrator(searcher, genLLM, nil, 3)
	result, err := o.Run(context.Background(), "Como fazer um pudim de leite condensado?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Contains(t, result.Answer, "Não posso responder")
	assert.Equal(t, 0, searcher.calls)
	assert.Empty(t, genLLM.prompts)
	assert.Empty(t, result.CitedSources)
	assert.Equal(t, 0, result.LoopCount)
}

func TestRunRejectsPIIWithoutEchoingIt(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	o := newOrchestrator(searcher, &stubLLM{answer: "x"}, nil, 3)

	result, err := o.Run(context.Background(), "Qual a dose de dipirona para o paciente com CPF 123.456.789-00?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, guardrails.RiskHigh, result.RiskLevel)
	assert.Contains(t, result.Answer, "cpf")
	assert.NotContains(t, result.Answer, "123.456.789-00")
	assert.Equal(t, 0, searcher.calls)
}

func TestRunEmptyRetrievalExhaustsLoopThenNoEvidence(t *testing.T) {
	searcher := &stubSearcher{docs: nil}
	genLLM := &stubLLM{answer: "A informação não consta nos protocolos consultados."}
	rewriteLLM := &stubLLM{answer: "Qual o protocolo institucional de sepse em pacientes adultos?"}

	maxLoops := 2
	o := newOrchestrator(searcher, genLLM, rewriteLLM, maxLoops)
	result, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, result.Status)
	assert.Equal(t, grounding.StatusNoEvidence, result.GroundingStatus)
	assert.Equal(t, maxLoops, result.LoopCount)
	// One retrieval per attempt: initial pass plus one per reformulation.
	assert.Equal(t, maxLoops+1, searcher.calls)
	assert.Len(t, rewriteLLM.prompts, maxLoops)
	assert.Empty(t, result.CitedSources)
}

func TestRunUngroundedExhaustsLoopThenDegraded(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	// Generation shares no salient terms with the document and is not a
	// refusal, so every grounding check lands on ungrounded.
	genLLM := &stubLLM{answer: "Tome bastante liquido e descanse em casa."}
	rewriteLLM := &stubLLM{answer: "Qual o protocolo de sepse grave?"}

	maxLoops := 2
	o := newOrchestrator(searcher, genLLM, rewriteLLM, maxLoops)
	result, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusDegraded, result.Status)
	assert.Equal(t, grounding.StatusUngrounded, result.GroundingStatus)
	assert.Equal(t, maxLoops, result.LoopCount)
	assert.Contains(t, result.Answer, "⚠️")
	assert.Contains(t, result.Answer, genLLM.answer)
	assert.Equal(t, []string{"sepse.pdf"}, result.CitedSources)
}

func TestRunGenerationFailureReturnsServiceUnavailable(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	genLLM := &stubLLM{err: errors.New("backend gone")}

	o := newOrchestrator(searcher, genLLM, nil, 3)
	result, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)

	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, grounding.StatusValidationError, result.GroundingStatus)
	assert.Contains(t, result.Answer, "indisponível")
	assert.Contains(t, result.Answer, result.CorrelationID)
}

func TestRunRewritePromptAlwaysCarriesOriginalQuestion(t *testing.T) {
	searcher := &stubSearcher{docs: nil}
	genLLM := &stubLLM{answer: "A informação não consta nos protocolos consultados."}
	rewriteLLM := &stubLLM{answer: "pergunta reescrita sobre protocolo de sepse"}

	original := "Qual o protocolo de sepse?"
	o := newOrchestrator(searcher, genLLM, rewriteLLM, 3)
	_, err := o.Run(context.Background(), original, nil)
	require.NoError(t, err)

	require.NotEmpty(t, rewriteLLM.prompts)
	for _, prompt := range rewriteLLM.prompts {
		assert.Contains(t, prompt, "Pergunta original: "+original)
	}
}

func TestRunRewriterFailureStillTerminates(t *testing.T) {
	searcher := &stubSearcher{docs: nil}
	genLLM := &stubLLM{answer: "A informação não consta nos protocolos consultados."}
	rewriteLLM := &stubLLM{err: errors.New("rewriter down")}

	maxLoops := 2
	o := newOrchestrator(searcher, genLLM, rewriteLLM, maxLoops)
	result, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)

	require.NoError(t, err)
	assert.Equal(t, maxLoops, result.LoopCount)
	assert.LessOrEqual(t, result.LoopCount, maxLoops)
}

func TestRunDoesNotMutateCallerHistory(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	genLLM := &stubLLM{answer: "O protocolo de sepse orienta iniciar antibioticoterapia empírica após coleta de culturas."}

	history := []store.ChatTurn{{Role: "user", Content: "Oi"}, {Role: "assistant", Content: "Olá"}}
	snapshot := make([]store.ChatTurn, len(history))
	copy(snapshot, history)

	o := newOrchestrator(searcher, genLLM, nil, 3)
	_, err := o.Run(context.Background(), "Qual o protocolo de sepse?", history)

	require.NoError(t, err)
	assert.Equal(t, snapshot, history)
}

func TestRunRequiresAllStages(t *testing.T) {
	o := NewOrchestrator(nil, nil, nil, nil, nil, nil, testConfig(3), nil)

	result, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestRunGenerationPromptContainsEvidence(t *testing.T) {
	searcher := &stubSearcher{docs: []store.Document{sepsisDoc()}}
	genLLM := &stubLLM{answer: "O protocolo de sepse orienta iniciar antibioticoterapia empírica após coleta de culturas."}

	o := newOrchestrator(searcher, genLLM, nil, 3)
	_, err := o.Run(context.Background(), "Qual o protocolo de sepse?", nil)
	require.NoError(t, err)

	require.Len(t, genLLM.prompts, 1)
	prompt := genLLM.prompts[0]
	assert.True(t, strings.Contains(prompt, "sepse.pdf"), "prompt cites the evidence source")
	assert.True(t, strings.Contains(prompt, "Qual o protocolo de sepse?"), "prompt carries the question")
}
