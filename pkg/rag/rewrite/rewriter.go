package rewrite

import (
	"context"
	"fmt"
	"strings"

	"clinical-assistant-be/pkg/llm"
)

// QueryRewriter reformulates a question to improve retrieval recall: expands
// clinical abbreviations, normalizes terminology, preserves original intent.
// Invoked only by the orchestrator when retrieval or grounding failed and the
// loop budget is not exhausted. Side-effect free.
type QueryRewriter struct {
	provider llm.LLMProvider
}

func NewQueryRewriter(provider llm.LLMProvider) *QueryRewriter {
	return &QueryRewriter{provider: provider}
}

// Rewrite produces the reformulated question. On provider failure it returns
// the current question unchanged along with the error, so the caller can
// retry retrieval without losing the question.
func (r *QueryRewriter) Rewrite(ctx context.Context, originalQuestion, currentQuestion string) (string, error) {
	prompt := fmt.Sprintf(`Você é um especialista em terminologia médica.
Sua tarefa é reescrever a pergunta do usuário para melhorar a busca nos protocolos internos.

- Expanda siglas médicas comuns (ex: IAM -> Infarto Agudo do Miocárdio).
- Use termos técnicos adequados.
- Mantenha a intenção original.
- Responda apenas com a pergunta reescrita, sem comentários.

Pergunta original: %s

Pergunta atual: %s`, originalQuestion, currentQuestion)

	rewritten, err := r.provider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		return currentQuestion, err
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return currentQuestion, nil
	}
	return rewritten, nil
}
