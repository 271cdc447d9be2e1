package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentSource(t *testing.T) {
	withSource := Document{Metadata: map[string]string{"source": "sepse.pdf"}}
	assert.Equal(t, "sepse.pdf", withSource.Source())

	withEmpty := Document{Metadata: map[string]string{"source": ""}}
	assert.Equal(t, "desconhecido", withEmpty.Source())

	withoutMetadata := Document{}
	assert.Equal(t, "desconhecido", withoutMetadata.Source())
}

func TestSourcesDeduplicatesPreservingOrder(t *testing.T) {
	docs := []Document{
		{Metadata: map[string]string{"source": "b.pdf"}},
		{Metadata: map[string]string{"source": "a.pdf"}},
		{Metadata: map[string]string{"source": "b.pdf"}},
		{},
	}

	assert.Equal(t, []string{"b.pdf", "a.pdf", "desconhecido"}, Sources(docs))
}

func TestSourcesEmptyInput(t *testing.T) {
	assert.Nil(t, Sources(nil))
}

func TestSessionAppendTurn(t *testing.T) {
	s := &Session{ID: "abc"}

	s.AppendTurn("user", "Qual o protocolo de sepse?")
	s.AppendTurn("assistant", "O protocolo orienta...")

	assert.Len(t, s.History, 2)
	assert.Equal(t, "user", s.History[0].Role)
	assert.Equal(t, "assistant", s.History[1].Role)
}

func TestSessionHistoryCopyDoesNotAlias(t *testing.T) {
	s := &Session{ID: "abc"}
	s.AppendTurn("user", "primeira pergunta")

	historyCopy := s.HistoryCopy()
	historyCopy[0].Content = "modificada"

	assert.Equal(t, "primeira pergunta", s.History[0].Content)
}
