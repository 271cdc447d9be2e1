package store

// ChatTurn is a single (role, text) pair in a conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Session represents the active consultation session state in memory.
// History is append-only; the pipeline never mutates it in place.
type Session struct {
	ID      string     `json:"id"`
	History []ChatTurn `json:"history"`
}

// AppendTurn records a new conversation turn.
func (s *Session) AppendTurn(role, content string) {
	s.History = append(s.History, ChatTurn{Role: role, Content: content})
}

// HistoryCopy returns a defensive copy of the conversation history so the
// pipeline can work on it without aliasing the session-owned slice.
func (s *Session) HistoryCopy() []ChatTurn {
	out := make([]ChatTurn, len(s.History))
	copy(out, s.History)
	return out
}
