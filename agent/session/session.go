// Package session runs one conversation: it binds a persona's tools to a
// chat model, drives the generate/execute loop per user turn, and bridges
// audio in and out through the speech interfaces.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	agentsx "github.com/brewhaven/voice-agents/agent/agents"
	contractx "github.com/brewhaven/voice-agents/agent/contract"
)

// maxToolRounds bounds the generate/execute loop so a model stuck on tool
// calls cannot spin forever within one turn.
const maxToolRounds = 5

type Session struct {
	def   agentsx.Definition
	model einomodel.ToolCallingChatModel
	voice contractx.Voice

	stt contractx.Transcriber
	tts contractx.Synthesizer

	mu        sync.Mutex
	history   []*schema.Message
	usage     contractx.UsageMetrics
	shutdowns []func()
}

func New(
	ctx context.Context,
	def agentsx.Definition,
	chatModel einomodel.ToolCallingChatModel,
	stt contractx.Transcriber,
	tts contractx.Synthesizer,
) (*Session, error) {
	bound, err := chatModel.WithTools(def.Tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, def.Type, err)
	}

	return &Session{
		def:   def,
		model: bound,
		voice: VoiceFor(def.Type),
		stt:   stt,
		tts:   tts,
	}, nil
}

// HandleTurn runs one text turn: generate, execute any requested tools,
// feed the spoken tool replies back, and repeat until the model answers
// in plain text.
func (s *Session) HandleTurn(ctx context.Context, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", fmt.Errorf("%w: empty user turn", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Instructions are re-rendered every turn; the tutor's change with its
	// active mode and the wellness companion's embed check-in history.
	messages := make([]*schema.Message, 0, len(s.history)+2)
	messages = append(messages, schema.SystemMessage(s.def.Instructions()))
	messages = append(messages, s.history...)
	userMsg := schema.UserMessage(userText)
	messages = append(messages, userMsg)

	turnMessages := []*schema.Message{userMsg}

	for round := 0; round <= maxToolRounds; round++ {
		msg, err := s.model.Generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("%w: generate for agent=%s: %v", contractx.ErrModelInvoke, s.def.Type, err)
		}
		s.collectUsage(msg)

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return "", fmt.Errorf("%w: model returned empty reply", contractx.ErrSchemaViolation)
			}
			turnMessages = append(turnMessages, msg)
			s.history = append(s.history, turnMessages...)
			return content, nil
		}

		messages = append(messages, msg)
		turnMessages = append(turnMessages, msg)

		for _, call := range msg.ToolCalls {
			reply, err := s.executeCall(ctx, call)
			if err != nil {
				return "", err
			}
			toolMsg := schema.ToolMessage(reply.Speech, call.ID)
			messages = append(messages, toolMsg)
			turnMessages = append(turnMessages, toolMsg)
		}
	}

	return "", fmt.Errorf("%w: agent=%s exceeded %d tool rounds in one turn", contractx.ErrModelInvoke, s.def.Type, maxToolRounds)
}

func (s *Session) executeCall(ctx context.Context, call schema.ToolCall) (contractx.ToolReply, error) {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.ToolReply{}, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolReply{}, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
		}
	}

	s.usage.ToolCalls++
	reply, err := s.def.Execute(ctx, name, args)
	if err != nil {
		return contractx.ToolReply{}, fmt.Errorf("execute tool=%s: %w", name, err)
	}

	log.Debug().Str("agent", string(s.def.Type)).Str("tool", name).Msg("tool executed")
	return reply, nil
}

// ProcessAudioTurn transcribes one utterance, runs the turn, and speaks
// the reply in the persona's voice.
func (s *Session) ProcessAudioTurn(ctx context.Context, audio io.Reader) ([]byte, string, error) {
	text, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		return nil, "", fmt.Errorf("transcribe turn: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, "", nil
	}

	reply, err := s.HandleTurn(ctx, text)
	if err != nil {
		return nil, "", err
	}

	spoken, err := s.tts.Synthesize(ctx, reply, s.voice)
	if err != nil {
		return nil, "", fmt.Errorf("synthesize reply: %w", err)
	}
	return spoken, reply, nil
}

func (s *Session) collectUsage(msg *schema.Message) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	u := msg.ResponseMeta.Usage
	s.usage = s.usage.Add(contractx.UsageMetrics{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
	})
}

// Usage returns a snapshot of the accumulated metrics.
func (s *Session) Usage() contractx.UsageMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// AddShutdownCallback registers a hook to run when the session ends.
// Callbacks run in registration order.
func (s *Session) AddShutdownCallback(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdowns = append(s.shutdowns, fn)
}

// Shutdown runs the registered callbacks and logs the usage summary.
func (s *Session) Shutdown() {
	s.mu.Lock()
	cbs := s.shutdowns
	s.shutdowns = nil
	usage := s.usage
	s.mu.Unlock()

	for _, fn := range cbs {
		fn()
	}

	log.Info().
		Str("agent", string(s.def.Type)).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("tool_calls", usage.ToolCalls).
		Msg("session usage summary")
}
