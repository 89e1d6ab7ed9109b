package chat

import "time"

// DefaultTitle names a session before its first user message arrives.
const DefaultTitle = "New Discussion"

const titleLimit = 30

// ChatSession is one conversation thread: an ordered, append-only list of
// messages plus a display title.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the session, messages included, safe to hand
// out while the original keeps being appended to.
func (s *ChatSession) Clone() *ChatSession {
	c := *s
	c.Messages = make([]Message, len(s.Messages))
	copy(c.Messages, s.Messages)
	return &c
}

// DeriveTitle returns the display title for a session holding the given
// messages. Once a first user message exists the title is a pure function of
// that message's content: its first 30 characters, with "..." appended when
// truncated. Otherwise the existing title is kept unchanged.
func DeriveTitle(existing string, msgs []Message) string {
	if len(msgs) == 0 || msgs[0].Role != RoleUser {
		return existing
	}
	content := []rune(msgs[0].Content)
	if len(content) <= titleLimit {
		return string(content)
	}
	return string(content[:titleLimit]) + "..."
}
