package rewrite

import (
	"context"
	"errors"
	"testing"

	"clinical-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	answer string
	err    error
	prompt string
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.answer, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

func TestRewriteTrimsAnswer(t *testing.T) {
	provider := &stubLLM{answer: "  Qual o protocolo de Infarto Agudo do Miocárdio?  \n"}
	r := NewQueryRewriter(provider)

	got, err := r.Rewrite(context.Background(), "Qual o protocolo de IAM?", "Qual o protocolo de IAM?")

	assert.NoError(t, err)
	assert.Equal(t, "Qual o protocolo de Infarto Agudo do Miocárdio?", got)
}

func TestRewritePromptCarriesBothQuestions(t *testing.T) {
	provider := &stubLLM{answer: "reescrita"}
	r := NewQueryRewriter(provider)

	_, err := r.Rewrite(context.Background(), "pergunta original aqui", "pergunta atual aqui")

	assert.NoError(t, err)
	assert.Contains(t, provider.prompt, "pergunta original aqui")
	assert.Contains(t, provider.prompt, "pergunta atual aqui")
}

func TestRewriteProviderFailureReturnsCurrentQuestion(t *testing.T) {
	provider := &stubLLM{err: errors.New("backend down")}
	r := NewQueryRewriter(provider)

	got, err := r.Rewrite(context.Background(), "original", "pergunta atual")

	assert.Error(t, err)
	assert.Equal(t, "pergunta atual", got)
}

func TestRewriteEmptyAnswerReturnsCurrentQuestion(t *testing.T) {
	provider := &stubLLM{answer: "   "}
	r := NewQueryRewriter(provider)

	got, err := r.Rewrite(context.Background(), "original", "pergunta atual")

	assert.NoError(t, err)
	assert.Equal(t, "pergunta atual", got)
}
