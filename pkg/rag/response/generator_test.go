package response

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clinical-assistant-be/pkg/llm"
	"clinical-assistant-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestGeneratePromptStructure(t *testing.T) {
	provider := &stubLLM{answer: "resposta"}
	g := NewGenerator(provider, nil)

	docs := []store.Document{
		{Content: "Iniciar antibioticoterapia na primeira hora.", Metadata: map[string]string{"source": "sepse.pdf"}},
		{Content: "Coletar lactato seriado.", Metadata: map[string]string{"source": "uti.pdf"}},
	}
	history := []store.ChatTurn{{Role: "user", Content: "Oi"}, {Role: "assistant", Content: "Olá, como posso ajudar?"}}

	_, err := g.Generate(context.Background(), "Qual o protocolo de sepse?", docs, history)
	require.NoError(t, err)

	prompt := provider.prompt
	assert.Contains(t, prompt, "NÃO invente informações")
	assert.Contains(t, prompt, "--- Protocolo 1 (fonte: sepse.pdf) ---")
	assert.Contains(t, prompt, "--- Protocolo 2 (fonte: uti.pdf) ---")
	assert.Contains(t, prompt, "Coletar lactato seriado.")
	assert.Contains(t, prompt, "user: Oi")
	assert.Contains(t, prompt, "Qual o protocolo de sepse?")
}

func TestGenerateEmptyEvidencePlaceholder(t *testing.T) {
	provider := &stubLLM{answer: "A informação não consta nos protocolos consultados."}
	g := NewGenerator(provider, nil)

	_, err := g.Generate(context.Background(), "Qual o protocolo de sepse?", nil, nil)
	require.NoError(t, err)

	assert.Contains(t, provider.prompt, "(nenhum protocolo relevante encontrado)")
	assert.Contains(t, provider.prompt, "(sem histórico)")
}

func TestGenerateHistoryWindowIsBounded(t *testing.T) {
	provider := &stubLLM{answer: "ok"}
	g := NewGenerator(provider, nil)

	long := strings.Repeat("palavra ", 1000)
	history := []store.ChatTurn{
		{Role: "user", Content: long},
		{Role: "assistant", Content: "resposta final recente"},
	}

	_, err := g.Generate(context.Background(), "Qual o protocolo de sepse?", nil, history)
	require.NoError(t, err)

	// The trailing window keeps the recent turn and drops the old bulk.
	assert.Contains(t, provider.prompt, "resposta final recente")
	assert.Less(t, len(provider.prompt), len(long))
}

func TestGeneratePropagatesProviderError(t *testing.T) {
	provider := &stubLLM{err: errors.New("backend down")}
	g := NewGenerator(provider, nil)

	_, err := g.Generate(context.Background(), "Qual o protocolo de sepse?", nil, nil)

	assert.Error(t, err)
}
