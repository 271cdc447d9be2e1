package response

import (
	"context"
	"fmt"
	"strings"

	"clinical-assistant-be/internal/pkg/logger"
	"clinical-assistant-be/pkg/llm"
	"clinical-assistant-be/pkg/store"
)

// historyWindowRunes bounds how much conversation history enters the prompt.
const historyWindowRunes = 2000

// Generator produces the clinical answer from the filtered evidence set.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGenerator(llmProvider llm.LLMProvider, log logger.ILogger) *Generator {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Generate builds the grounded prompt and calls the generation capability.
// Documents must already be graded; ungraded evidence never reaches here.
func (g *Generator) Generate(ctx context.Context, question string, documents []store.Document, history []store.ChatTurn) (string, error) {
	prompt := g.buildPrompt(question, documents, history)

	answer, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		g.logger.Error("response", "LLM generation failed", map[string]interface{}{"error": err.Error()})
		return "", err
	}

	g.logger.Debug("response", "Answer generated", map[string]interface{}{
		"documents": len(documents),
		"length":    len(answer),
	})

	return answer, nil
}

func (g *Generator) buildPrompt(question string, documents []store.Document, history []store.ChatTurn) string {
	var sb strings.Builder

	sb.WriteString(`Você é um Assistente Virtual Médico do Hospital.
Sua função é auxiliar profissionais de saúde com base EXCLUSIVA nos protocolos internos fornecidos.

Diretrizes de Segurança:
1. NÃO invente informações. Se não estiver no contexto, diga "A informação não consta nos protocolos consultados."
2. NÃO forneça diagnósticos definitivos. Sugira condutas baseadas no protocolo.
3. Mantenha tom profissional, direto e técnico.

`)

	sb.WriteString("Histórico de Conversa:\n")
	sb.WriteString(formatHistory(history))
	sb.WriteString("\n\n")

	sb.WriteString("Contexto (Protocolos Internos):\n")
	if len(documents) == 0 {
		sb.WriteString("(nenhum protocolo relevante encontrado)\n")
	} else {
		for i, doc := range documents {
			sb.WriteString(fmt.Sprintf("--- Protocolo %d (fonte: %s) ---\n", i+1, doc.Source()))
			sb.WriteString(doc.Content)
			sb.WriteString("\n\n")
		}
	}

	sb.WriteString("Pergunta do Profissional:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nResposta:")

	return sb.String()
}

// formatHistory renders the trailing window of the conversation.
func formatHistory(history []store.ChatTurn) string {
	if len(history) == 0 {
		return "(sem histórico)"
	}

	var sb strings.Builder
	for _, turn := range history {
		sb.WriteString(turn.Role)
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}

	rendered := sb.String()
	runes := []rune(rendered)
	if len(runes) > historyWindowRunes {
		rendered = string(runes[len(runes)-historyWindowRunes:])
	}
	return rendered
}
