package scholar

import "github.com/google/uuid"

// Role represents the role of a message sender in a conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is a single entry in a conversation history.
//
// Messages are treated as immutable once appended to a thread. Assistant
// messages carry ToolCalls when the model asks for tools, and tool messages
// carry the matching ToolResults.
type Message struct {
	ID          string       `json:"id,omitempty"`
	Role        Role         `json:"role"`
	Content     string       `json:"content,omitempty"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// GenerateMessageID creates a unique message identifier.
func GenerateMessageID() string {
	return "msg-" + uuid.New().String()
}

// NewUserMessage creates a user message with a fresh ID.
func NewUserMessage(content string) Message {
	return Message{ID: GenerateMessageID(), Role: RoleUser, Content: content}
}

// HasToolCalls reports whether the message requests tool invocations.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

// Response is a complete response from a chat provider.
type Response struct {
	Content      string `json:"content,omitempty"`
	FinishReason string `json:"finishReason,omitempty"`
	Usage        Usage  `json:"usage"`
	// ToolCalls is non-empty when the model wants tools executed.
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// Usage contains token usage information for a request.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Message converts the response into an assistant message for the history.
func (r *Response) Message() Message {
	return Message{
		ID:        GenerateMessageID(),
		Role:      RoleAssistant,
		Content:   r.Content,
		ToolCalls: r.ToolCalls,
	}
}
