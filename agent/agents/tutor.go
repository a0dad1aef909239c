package agents

import (
	catalogx "github.com/brewhaven/voice-agents/agent/catalog"
	contractx "github.com/brewhaven/voice-agents/agent/contract"
	promptx "github.com/brewhaven/voice-agents/agent/prompt"
	routerx "github.com/brewhaven/voice-agents/agent/router"
	toolx "github.com/brewhaven/voice-agents/agent/tool"
)

// NewTutor builds the study-session persona. The shared read-only catalog
// feeds a per-conversation mode router; instructions follow the router's
// current mode.
func NewTutor(cat *catalogx.Catalog) Definition {
	prompts := promptx.LoadPromptSet()
	r := routerx.New(cat)

	infos, exec := toolx.BuildForAgent(contractx.AgentTypeTutor, toolx.Deps{
		Router: r,
	})

	return Definition{
		Type:         contractx.AgentTypeTutor,
		Name:         "Study Buddy",
		Tools:        infos,
		Execute:      exec,
		instructions: func() string { return prompts.TutorFor(r.Mode()) },
	}
}
