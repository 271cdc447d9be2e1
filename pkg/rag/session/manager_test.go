package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerLoadOrCreateRoundTrip(t *testing.T) {
	m := NewManager()

	s := m.LoadOrCreate("sess-1")
	assert.Equal(t, "sess-1", s.ID)
	assert.Empty(t, s.History)

	s.AppendTurn("user", "Qual o protocolo de sepse?")
	m.Save(s)

	loaded := m.LoadOrCreate("sess-1")
	assert.Len(t, loaded.History, 1)
}

func TestManagerUnsavedSessionIsNotPersisted(t *testing.T) {
	m := NewManager()

	s := m.LoadOrCreate("sess-2")
	s.AppendTurn("user", "pergunta")
	// No Save.

	loaded := m.LoadOrCreate("sess-2")
	assert.Empty(t, loaded.History)
}

func TestManagerClear(t *testing.T) {
	m := NewManager()

	s := m.LoadOrCreate("sess-3")
	s.AppendTurn("user", "pergunta")
	m.Save(s)

	m.Clear("sess-3")

	loaded := m.LoadOrCreate("sess-3")
	assert.Empty(t, loaded.History)
}
