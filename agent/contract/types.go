package contract

type AgentType string

const (
	AgentTypeBarista  AgentType = "barista"
	AgentTypeTutor    AgentType = "tutor"
	AgentTypeWellness AgentType = "wellness"
)

// ParseAgentType maps a requested agent name onto a known type.
func ParseAgentType(s string) (AgentType, bool) {
	switch AgentType(s) {
	case AgentTypeBarista, AgentTypeTutor, AgentTypeWellness:
		return AgentType(s), true
	default:
		return "", false
	}
}

// Voice identifies a synthesized voice plus its delivery style.
type Voice struct {
	ID    string `json:"id"`
	Style string `json:"style,omitempty"`
}

// ToolReply is what a tool handler hands back to the session runtime.
// Speech is spoken verbatim to the user by the framework; handlers never
// surface Go errors for user-facing validation problems.
type ToolReply struct {
	Tool   string `json:"tool"`
	Speech string `json:"speech"`
}

// UsageMetrics is the per-turn usage notification forwarded from the
// model layer to logging.
type UsageMetrics struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	ToolCalls        int `json:"tool_calls"`
}

func (u UsageMetrics) Add(other UsageMetrics) UsageMetrics {
	return UsageMetrics{
		PromptTokens:     u.PromptTokens + other.PromptTokens,
		CompletionTokens: u.CompletionTokens + other.CompletionTokens,
		ToolCalls:        u.ToolCalls + other.ToolCalls,
	}
}
