package agents

import (
	contractx "github.com/brewhaven/voice-agents/agent/contract"
	promptx "github.com/brewhaven/voice-agents/agent/prompt"
	statex "github.com/brewhaven/voice-agents/agent/state"
	storex "github.com/brewhaven/voice-agents/agent/store"
	toolx "github.com/brewhaven/voice-agents/agent/tool"
)

// NewBarista builds the coffee-ordering persona with its own empty order.
func NewBarista(orders storex.Sink[storex.OrderRecord]) Definition {
	prompts := promptx.LoadPromptSet()
	order := statex.NewOrder()

	infos, exec := toolx.BuildForAgent(contractx.AgentTypeBarista, toolx.Deps{
		Order:  order,
		Orders: orders,
	})

	return Definition{
		Type:         contractx.AgentTypeBarista,
		Name:         "Brew Haven Barista",
		Tools:        infos,
		Execute:      exec,
		instructions: func() string { return prompts.Barista },
	}
}
