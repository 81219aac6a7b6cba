package ai

// Chat roles understood by the butler endpoint.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// LastN returns at most n of the most recent messages. The returned slice is a
// copy, so later appends to the source do not leak into an in-flight request.
func LastN(messages []ChatMessage, n int) []ChatMessage {
	if n <= 0 || len(messages) == 0 {
		return []ChatMessage{}
	}
	start := 0
	if len(messages) > n {
		start = len(messages) - n
	}
	out := make([]ChatMessage, len(messages)-start)
	copy(out, messages[start:])
	return out
}
