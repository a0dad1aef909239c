package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	promptx "github.com/brewhaven/voice-agents/agent/prompt"
	statex "github.com/brewhaven/voice-agents/agent/state"
	storex "github.com/brewhaven/voice-agents/agent/store"
	toolx "github.com/brewhaven/voice-agents/agent/tool"
)

// NewWellness builds the check-in companion. The previous check-in, when one
// exists, is folded into the instructions so the agent can greet with
// continuity; an unreadable history degrades to a first-time greeting.
func NewWellness(ctx context.Context, checkins storex.Sink[storex.CheckinRecord]) Definition {
	history, err := checkins.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("wellness history unavailable for greeting context")
		history = nil
	}

	prompts := promptx.LoadPromptSet()
	instructions := prompts.RenderWellness(historyContext(history))
	checkin := statex.NewCheckin()

	infos, exec := toolx.BuildForAgent(contractx.AgentTypeWellness, toolx.Deps{
		Checkin:  checkin,
		Checkins: checkins,
	})

	return Definition{
		Type:         contractx.AgentTypeWellness,
		Name:         "Wellness Companion",
		Tools:        infos,
		Execute:      exec,
		instructions: func() string { return instructions },
	}
}

func historyContext(history []storex.CheckinRecord) string {
	if len(history) == 0 {
		return "This is your first check-in with me."
	}

	last := history[len(history)-1]
	when := last.Timestamp
	if when == "" {
		when = "last time"
	}
	mood := last.Mood
	if mood == "" {
		mood = "not specified"
	}

	ctx := fmt.Sprintf("Last check-in was on %s. You mentioned feeling %s", when, mood)
	if len(last.Objectives) > 0 {
		top := last.Objectives
		if len(top) > 2 {
			top = top[:2]
		}
		ctx += fmt.Sprintf(" and wanted to work on: %s", strings.Join(top, ", "))
	}
	return ctx + "."
}
