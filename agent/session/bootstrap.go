package session

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	agentsx "github.com/brewhaven/voice-agents/agent/agents"
	catalogx "github.com/brewhaven/voice-agents/agent/catalog"
	contractx "github.com/brewhaven/voice-agents/agent/contract"
	llmx "github.com/brewhaven/voice-agents/agent/llm"
	storex "github.com/brewhaven/voice-agents/agent/store"
	workerx "github.com/brewhaven/voice-agents/pkg/worker"
)

// Deps carries the shared resources a job needs: model config, speech
// clients, record sinks, and the concept catalog. All of them are safe
// for concurrent jobs; per-conversation state lives in the Definition.
type Deps struct {
	LLM      llmx.Config
	STT      contractx.Transcriber
	TTS      contractx.Synthesizer
	Orders   storex.Sink[storex.OrderRecord]
	Checkins storex.Sink[storex.CheckinRecord]
	Catalog  *catalogx.Catalog
}

// Run is the per-job entrypoint: it builds the persona for the requested
// agent type and serves audio turns until the job ends.
func Run(ctx context.Context, jc *workerx.JobContext, deps Deps) error {
	agentType, ok := contractx.ParseAgentType(jc.Job.AgentType)
	if !ok {
		return fmt.Errorf("%w: unknown agent type %q", contractx.ErrValidation, jc.Job.AgentType)
	}

	def, err := definitionFor(ctx, agentType, deps)
	if err != nil {
		return err
	}

	modelCfg := deps.LLM.ChatModelFor(agentType)
	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return err
	}

	sess, err := New(ctx, def, chatModel, deps.STT, deps.TTS)
	if err != nil {
		return err
	}
	defer sess.Shutdown()

	log.Info().Str("job_id", jc.Job.ID).Str("agent", string(agentType)).
		Str("persona", def.Name).Msg("session started")

	for turn := range jc.Turns() {
		spoken, text, err := sess.ProcessAudioTurn(ctx, bytes.NewReader(turn.Audio))
		if err != nil {
			// One bad turn must not end the conversation.
			log.Error().Err(err).Str("job_id", jc.Job.ID).Msg("turn failed")
			continue
		}
		if len(spoken) == 0 {
			continue
		}
		if err := jc.SendSpeech(spoken, text); err != nil {
			return fmt.Errorf("send speech for job=%s: %w", jc.Job.ID, err)
		}
	}

	return nil
}

func definitionFor(ctx context.Context, agentType contractx.AgentType, deps Deps) (agentsx.Definition, error) {
	switch agentType {
	case contractx.AgentTypeBarista:
		return agentsx.NewBarista(deps.Orders), nil
	case contractx.AgentTypeWellness:
		return agentsx.NewWellness(ctx, deps.Checkins), nil
	case contractx.AgentTypeTutor:
		return agentsx.NewTutor(deps.Catalog), nil
	default:
		return agentsx.Definition{}, fmt.Errorf("%w: no definition for agent type %q", contractx.ErrValidation, agentType)
	}
}
