package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	routerx "github.com/brewhaven/voice-agents/agent/router"
)

const (
	ToolListTopics      = "list_topics"
	ToolSwitchMode      = "switch_mode"
	ToolExplainConcept  = "explain_concept"
	ToolAskQuizQuestion = "ask_quiz_question"
	ToolPromptTeachBack = "prompt_teach_back"
	ToolGiveFeedback    = "give_feedback"
)

func tutorToolInfos() []*schema.ToolInfo {
	conceptParam := func(required bool) map[string]*schema.ParameterInfo {
		return map[string]*schema.ParameterInfo{
			"concept": {Type: schema.String, Desc: "Topic id or title from the catalog", Required: required},
		}
	}

	return []*schema.ToolInfo{
		{
			Name:        ToolListTopics,
			Desc:        "List the topics available in the concept catalog.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		},
		{
			Name: ToolSwitchMode,
			Desc: "Switch the study session into learn, quiz, or teach_back mode for a topic.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"mode":    {Type: schema.String, Desc: "One of: learn, quiz, teach_back", Required: true},
				"concept": {Type: schema.String, Desc: "Topic id or title from the catalog", Required: true},
			}),
		},
		{
			Name:        ToolExplainConcept,
			Desc:        "Speak the canonical explanation of a concept (current topic when omitted).",
			ParamsOneOf: schema.NewParamsOneOfByParams(conceptParam(false)),
		},
		{
			Name:        ToolAskQuizQuestion,
			Desc:        "Ask the canonical quiz question for a concept (current topic when omitted).",
			ParamsOneOf: schema.NewParamsOneOfByParams(conceptParam(false)),
		},
		{
			Name:        ToolPromptTeachBack,
			Desc:        "Prompt the student to teach a concept back (current topic when omitted).",
			ParamsOneOf: schema.NewParamsOneOfByParams(conceptParam(false)),
		},
		{
			Name: ToolGiveFeedback,
			Desc: "Give teach-back feedback. Only valid while in teach_back mode.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"strength": {Type: schema.String, Desc: "One thing the student explained well", Required: true},
				"gap":      {Type: schema.String, Desc: "One thing to revisit", Required: true},
			}),
		},
	}
}

func newTutorExecutor(deps Deps) Executor {
	fallback := DefaultExecutor(contractx.AgentTypeTutor)
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolReply, error) {
		switch tool {
		case ToolListTopics:
			return listTopics(deps)
		case ToolSwitchMode:
			return switchMode(deps, args)
		case ToolExplainConcept:
			return specialistPrompt(deps, routerx.ModeLearn, tool, args)
		case ToolAskQuizQuestion:
			return specialistPrompt(deps, routerx.ModeQuiz, tool, args)
		case ToolPromptTeachBack:
			return specialistPrompt(deps, routerx.ModeTeachBack, tool, args)
		case ToolGiveFeedback:
			return giveFeedback(deps, args)
		default:
			return fallback(ctx, tool, args)
		}
	}
}

func listTopics(deps Deps) (contractx.ToolReply, error) {
	titles := deps.Router.Titles()
	if len(titles) == 0 {
		return reply(ToolListTopics, "No topics are loaded right now, so we can't start a study session.")
	}
	return reply(ToolListTopics, fmt.Sprintf("Available topics: %s.", strings.Join(titles, ", ")))
}

func switchMode(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	mode := stringArg(args, "mode", "")
	concept := stringArg(args, "concept", "")

	res := deps.Router.SwitchMode(mode, concept)
	if res.Switched {
		log.Info().Str("mode", string(deps.Router.Mode())).Str("concept", concept).Msg("tutor mode switched")
	}
	return reply(ToolSwitchMode, res.Speech)
}

func specialistPrompt(deps Deps, mode routerx.Mode, tool string, args map[string]any) (contractx.ToolReply, error) {
	res := deps.Router.Explain(mode, stringArg(args, "concept", ""))
	return reply(tool, res.Speech)
}

func giveFeedback(deps Deps, args map[string]any) (contractx.ToolReply, error) {
	if deps.Router.Mode() != routerx.ModeTeachBack {
		return reply(ToolGiveFeedback, "We're not in teach-back mode right now. Switch to teach_back first and let the student explain.")
	}

	strength := stringArg(args, "strength", "")
	gap := stringArg(args, "gap", "")
	return reply(ToolGiveFeedback, fmt.Sprintf(
		"Nice work. What landed well: %s. One thing to tighten up: %s. Want to try explaining that part again?",
		strength, gap))
}
