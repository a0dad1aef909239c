package agents

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	toolx "github.com/brewhaven/voice-agents/agent/tool"
)

// Definition is one persona: instruction text plus the tool handlers bound
// to a freshly allocated conversation state. Build one per connection; the
// state inside the executor is not shareable.
type Definition struct {
	Type    contractx.AgentType
	Name    string
	Tools   []*schema.ToolInfo
	Execute toolx.Executor

	instructions func() string
}

// Instructions returns the current persona text. For the tutor it tracks the
// active mode, so the session re-reads it every turn.
func (d Definition) Instructions() string {
	if d.instructions == nil {
		return ""
	}
	return d.instructions()
}
