package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

const (
	ToolRecordMood           = "record_mood"
	ToolRecordStressFactor   = "record_stress_factor"
	ToolRecordObjective      = "record_objective"
	ToolSaveCheckin          = "save_checkin"
	ToolReviewRecentCheckins = "review_recent_checkins"
)

func wellnessToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolRecordMood,
			Desc: "Record the user's current mood and energy level.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"mood_description": {Type: schema.String, Desc: "How the user describes their mood", Required: true},
				"energy_level":     {Type: schema.String, Desc: "User's energy level, e.g. high, medium, low"},
			}),
		},
		{
			Name: ToolRecordStressFactor,
			Desc: "Record something that's stressing the user or on their mind.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"stress_factor": {Type: schema.String, Desc: "What's causing stress or concern", Required: true},
			}),
		},
		{
			Name: ToolRecordObjective,
			Desc: "Record a goal or intention the user has for the day.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"objective": {Type: schema.String, Desc: "What the user wants to accomplish today", Required: true},
			}),
		},
		{
			Name: ToolSaveCheckin,
			Desc: "Save the complete check-in to the wellness log.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"summary": {Type: schema.String, Desc: "A brief one-sentence summary of the check-in", Required: true},
			}),
		},
		{
			Name: ToolReviewRecentCheckins,
			Desc: "Review recent check-ins to provide insights.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"days": {Type: schema.Integer, Desc: "Number of recent check-ins to review, default 7"},
			}),
		},
	}
}

func newWellnessExecutor(deps Deps) Executor {
	fallback := DefaultExecutor(contractx.AgentTypeWellness)
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolReply, error) {
		switch tool {
		case ToolRecordMood:
			return recordMood(deps, args)
		case ToolRecordStressFactor:
			return recordStressFactor(deps, args)
		case ToolRecordObjective:
			return recordObjective(deps, args)
		case ToolSaveCheckin:
			return saveCheckin(ctx, deps, args)
		case ToolReviewRecentCheckins:
			return reviewRecentCheckins(ctx, deps, args)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func recordMood(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	mood := stringArg(args, "mood_description", "")
	energy := stringArg(args, "energy_level", "not specified")

	deps.Checkin.Update("mood", mood)
	deps.Checkin.Update("energy", energy)

	log.Info().Str("mood", mood).Str("energy", energy).Msg("mood recorded")
	return reply(ToolRecordMood, fmt.Sprintf("Noted: mood is %s, energy level is %s", mood, energy))
}

func recordStressFactor(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	factor := stringArg(args, "stress_factor", "")
	deps.Checkin.Update("stress", factor)
	return reply(ToolRecordStressFactor, fmt.Sprintf("I hear you - %s is on your mind", factor))
}

func recordObjective(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	objective := stringArg(args, "objective", "")
	deps.Checkin.Update("objective", objective)
	return reply(ToolRecordObjective, fmt.Sprintf("Added to your objectives: %s", objective))
}

func saveCheckin(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolReply, error) {
	if deps.Checkin.Mood == "" {
		return reply(ToolSaveCheckin, "Cannot save check-in yet - mood hasn't been recorded")
	}
	if len(deps.Checkin.Objectives) == 0 {
		return reply(ToolSaveCheckin, "Cannot save check-in yet - no objectives recorded")
	}

	deps.Checkin.Update("summary", stringArg(args, "summary", ""))
	snapshot := deps.Checkin.Snapshot()

	rec := storex.CheckinRecord{
		Mood:          snapshot.Mood,
		Energy:        snapshot.Energy,
		StressFactors: snapshot.StressFactors,
		Objectives:    snapshot.Objectives,
		Timestamp:     deps.now().Format(time.RFC3339),
		Summary:       snapshot.Summary,
	}
	if err := deps.Checkins.Append(ctx, rec); err != nil {
		log.Error().Err(err).Msg("check-in save failed")
		return reply(ToolSaveCheckin, "I couldn't save your check-in just now, but everything we talked about still counts. We can try again in a moment.")
	}

	deps.Checkin.Reset()

	stress := "nothing specific"
	if len(snapshot.StressFactors) > 0 {
		stress = strings.Join(snapshot.StressFactors, ", ")
	}
	return reply(ToolSaveCheckin, fmt.Sprintf(
		"Check-in saved! Today's summary: mood %s, energy %s, on your mind: %s. Your objectives: %s. %s I'm here whenever you need to check in. Take care!",
		snapshot.Mood, snapshot.Energy, stress, strings.Join(snapshot.Objectives, "; "), snapshot.Summary))
}

func reviewRecentCheckins(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolReply, error) {
	days := intArg(args, "days", 7)
	if days <= 0 {
		days = 7
	}

	history, err := deps.Checkins.LoadAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("wellness history unavailable")
		history = nil
	}
	if len(history) == 0 {
		return reply(ToolReviewRecentCheckins, "No previous check-ins found yet.")
	}

	if days > len(history) {
		days = len(history)
	}
	recent := history[len(history)-days:]

	moods := make([]string, 0, len(recent))
	totalObjectives := 0
	for _, entry := range recent {
		mood := entry.Mood
		if mood == "" {
			mood = "unknown"
		}
		moods = append(moods, mood)
		totalObjectives += len(entry.Objectives)
	}
	if len(moods) > 5 {
		moods = moods[len(moods)-5:]
	}

	speech := fmt.Sprintf("Here's a look at your last %d check-ins. Recent moods: %s. Objectives set: %d.",
		len(recent), strings.Join(moods, ", "), totalObjectives)
	if len(recent) >= 3 {
		speech += " You've been consistent with checking in - that's great for self-awareness!"
	}
	return reply(ToolReviewRecentCheckins, speech)
}
