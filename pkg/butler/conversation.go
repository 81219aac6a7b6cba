package butler

import (
	"strings"

	"airbutler/pkg/ai"
)

// Entry is one message in the conversation log.
type Entry = ai.ChatMessage

// Conversation is the append-only message log shown in the panel.
type Conversation struct {
	entries []Entry
}

// Append adds an entry at the end of the log.
func (c *Conversation) Append(role, content string) {
	c.entries = append(c.entries, Entry{Role: role, Content: content})
}

// Len returns the number of entries.
func (c *Conversation) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the full log in display order.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Recent returns at most n of the latest entries, copied.
func (c *Conversation) Recent(n int) []Entry {
	return ai.LastN(c.entries, n)
}

// Transcript renders the log as plain text, one block per entry.
func (c *Conversation) Transcript() string {
	var sb strings.Builder
	for i, e := range c.entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := "管家"
		if e.Role == ai.RoleUser {
			label = "我"
		}
		sb.WriteString(label)
		sb.WriteString("：")
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
