package assistant

// Role names accepted in conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior message in a conversation.
type Turn struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// Reply is what the assistant hands back to its caller.
type Reply struct {
	Response  string `json:"response"`
	Success   bool   `json:"success"`
	Available bool   `json:"-"`
}

// MessagesRequest is the Messages API request body.
type MessagesRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// MessagesResponse is the Messages API response body.
type MessagesResponse struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Role    string    `json:"role"`
	Content []Content `json:"content"`
	Model   string    `json:"model"`
	Usage   Usage     `json:"usage"`
}

// Message is a message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Content is a content block in the response.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Usage is token usage information.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// errorEnvelope is the body the API returns on failure.
type errorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
