package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	routerx "github.com/brewhaven/voice-agents/agent/router"
	statex "github.com/brewhaven/voice-agents/agent/state"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

// Executor runs one named tool call against the conversation's own state.
// The returned speech is what the framework says to the user; validation
// problems come back as speech, not as errors.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolReply, error)

// Deps carries the conversation-scoped collaborators the handlers close
// over. Only the fields the chosen agent needs are set; state is never a
// process global.
type Deps struct {
	Order    *statex.Order
	Checkin  *statex.Checkin
	Router   *routerx.Router
	Orders   storex.Sink[storex.OrderRecord]
	Checkins storex.Sink[storex.CheckinRecord]
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// BuildForAgent returns the declared tool schemas and the executor for one
// agent type.
func BuildForAgent(agentType contractx.AgentType, deps Deps) ([]*schema.ToolInfo, Executor) {
	switch agentType {
	case contractx.AgentTypeBarista:
		return baristaToolInfos(), newBaristaExecutor(deps)
	case contractx.AgentTypeWellness:
		return wellnessToolInfos(), newWellnessExecutor(deps)
	case contractx.AgentTypeTutor:
		return tutorToolInfos(), newTutorExecutor(deps)
	default:
		return nil, DefaultExecutor(agentType)
	}
}

// DefaultExecutor answers every call with an unavailable message so a stray
// tool request never breaks the conversation.
func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(ctx context.Context, tool string, _ map[string]any) (contractx.ToolReply, error) {
		return contractx.ToolReply{
			Tool:   tool,
			Speech: fmt.Sprintf("I don't have a %s action available right now.", tool),
		}, nil
	}
}

func reply(tool, speech string) (contractx.ToolReply, error) {
	return contractx.ToolReply{Tool: tool, Speech: speech}, nil
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// intArg tolerates JSON numbers arriving as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
