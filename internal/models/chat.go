package models

// ChatMessage is a single entry in the conversation history. The browser
// holds the full history; the server only relays it.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// TroubleshootingState is the three-field progress descriptor relayed
// between the browser and the assistant service. The transition logic is
// owned entirely by the assistant service; this code passes it through
// verbatim.
type TroubleshootingState struct {
	IsActive       bool    `json:"is_active"`
	CurrentProblem *string `json:"current_problem"`
	CurrentStep    int     `json:"current_step"`
}

// AssistantRequest is the body accepted by the /api/ai route. Endpoint
// selection is inferred from Action; the remaining fields are forwarded.
type AssistantRequest struct {
	Action               string                `json:"action,omitempty"`
	Message              string                `json:"message,omitempty"`
	Query                string                `json:"query,omitempty"`
	History              []ChatMessage         `json:"history,omitempty"`
	TroubleshootingState *TroubleshootingState `json:"troubleshooting_state,omitempty"`
}
