package session

import (
	contractx "github.com/brewhaven/voice-agents/agent/contract"
)

// Each persona speaks with a fixed voice; the style hint is passed through
// to the synthesizer.
var voiceTable = map[contractx.AgentType]contractx.Voice{
	contractx.AgentTypeBarista:  {ID: "en-US-matthew", Style: "Conversation"},
	contractx.AgentTypeTutor:    {ID: "en-US-terrell", Style: "Conversation"},
	contractx.AgentTypeWellness: {ID: "en-US-natalie", Style: "Calm"},
}

var defaultVoice = contractx.Voice{ID: "en-US-matthew", Style: "Conversation"}

func VoiceFor(agentType contractx.AgentType) contractx.Voice {
	if v, ok := voiceTable[agentType]; ok {
		return v
	}
	return defaultVoice
}
