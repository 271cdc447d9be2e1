package grader

import (
	"context"
	"fmt"
	"strings"

	"clinical-assistant-be/pkg/llm"
	"clinical-assistant-be/pkg/store"
)

// LLMScorer asks the text-generation capability for a binary relevance
// judgment per document, in the voice of a clinical information triager.
type LLMScorer struct {
	provider llm.LLMProvider
}

var _ Scorer = &LLMScorer{}

func NewLLMScorer(provider llm.LLMProvider) *LLMScorer {
	return &LLMScorer{provider: provider}
}

func (s *LLMScorer) Relevant(ctx context.Context, question string, doc store.Document) (bool, error) {
	prompt := fmt.Sprintf(`Você é um triador de informações médicas.
Avalie se o documento recuperado é relevante para a dúvida clínica.

Se o documento falar sobre o procedimento, medicamento ou condição mencionada na pergunta, considere relevante.
Se falar de algo totalmente diferente, descarte.
Responda apenas "sim" ou "nao".

Pergunta Clínica: %s

Protocolo Recuperado:
%s

É relevante?`, question, doc.Content)

	answer, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return false, err
	}

	return strings.Contains(strings.ToLower(answer), "sim"), nil
}
