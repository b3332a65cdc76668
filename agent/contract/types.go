package contract

// ToolCall is a structured invocation received from the external
// function-calling layer. The engine validates it against the declared tool
// schema and applies it to the named session.
type ToolCall struct {
	SessionID string         `json:"session_id"`
	Tool      string         `json:"tool"`
	Args      map[string]any `json:"args,omitempty"`
}

// ToolReply is the engine's answer: a short acknowledgment plus a
// natural-language follow-up instruction for the caller to relay. Recoverable
// input problems (unknown topic, invalid mode, bad choice) are ordinary
// replies, never errors.
type ToolReply struct {
	Text string `json:"text"`
}
