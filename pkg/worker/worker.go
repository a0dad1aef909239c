// Package worker connects to a dispatcher over WebSocket, registers itself,
// and runs one entrypoint goroutine per assigned job. Audio turns arrive as
// dispatcher messages and synthesized speech goes back the same way.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultDialTimeout = 15 * time.Second
	turnBuffer         = 16
)

// Process holds state shared by every job on this worker. Prewarm fills it
// once at startup; entrypoints read from it.
type Process struct {
	mu       sync.RWMutex
	userdata map[string]any
}

func (p *Process) Set(key string, val any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.userdata == nil {
		p.userdata = make(map[string]any)
	}
	p.userdata[key] = val
}

func (p *Process) Get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	val, ok := p.userdata[key]
	return val, ok
}

// Job is one conversation assignment from the dispatcher.
type Job struct {
	ID        string            `json:"id"`
	RoomName  string            `json:"room_name"`
	AgentType string            `json:"agent_type"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AudioTurn is one complete user utterance.
type AudioTurn struct {
	Audio []byte
}

// JobContext is the per-job handle given to the entrypoint.
type JobContext struct {
	Job     Job
	Process *Process

	worker *Worker
	turns  chan AudioTurn
}

// Turns yields user utterances in arrival order. The channel closes when
// the dispatcher ends the job or the connection drops.
func (jc *JobContext) Turns() <-chan AudioTurn {
	return jc.turns
}

// SendSpeech ships one synthesized reply back to the dispatcher.
func (jc *JobContext) SendSpeech(audio []byte, text string) error {
	return jc.worker.send(message{
		Type:  msgSpeech,
		JobID: jc.Job.ID,
		Audio: audio,
		Text:  text,
	})
}

type Options struct {
	DispatcherURL string `envconfig:"DISPATCHER_URL" split_words:"true" required:"true"`
	Token         string `envconfig:"TOKEN" split_words:"true"`
	AgentName     string `envconfig:"AGENT_NAME" split_words:"true" default:"voice-agents"`

	// Prewarm runs once before registration to warm shared resources.
	Prewarm func(p *Process) error `ignored:"true"`
	// Entrypoint runs per job in its own goroutine.
	Entrypoint func(ctx context.Context, jc *JobContext) error `ignored:"true"`
}

const (
	msgRegister = "register"
	msgAssign   = "assignment"
	msgTurn     = "turn"
	msgTurnEnd  = "turn_end"
	msgSpeech   = "speech"
	msgStatus   = "status"
)

type message struct {
	Type     string `json:"type"`
	WorkerID string `json:"worker_id,omitempty"`
	Agent    string `json:"agent,omitempty"`
	Job      *Job   `json:"job,omitempty"`
	JobID    string `json:"job_id,omitempty"`
	Audio    []byte `json:"audio,omitempty"`
	Text     string `json:"text,omitempty"`
	State    string `json:"state,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Worker struct {
	opts    Options
	id      string
	process *Process

	conn    *websocket.Conn
	writeMu sync.Mutex

	jobsMu sync.Mutex
	jobs   map[string]*JobContext
}

func New(opts Options) (*Worker, error) {
	if strings.TrimSpace(opts.DispatcherURL) == "" {
		return nil, fmt.Errorf("worker: dispatcher url is required")
	}
	if opts.Entrypoint == nil {
		return nil, fmt.Errorf("worker: entrypoint is required")
	}
	return &Worker{
		opts:    opts,
		id:      uuid.NewString(),
		process: &Process{},
		jobs:    make(map[string]*JobContext),
	}, nil
}

// Run prewarms, connects, registers, and serves assignments until the
// context is canceled or the connection drops.
func (w *Worker) Run(ctx context.Context) error {
	if w.opts.Prewarm != nil {
		if err := w.opts.Prewarm(w.process); err != nil {
			return fmt.Errorf("worker: prewarm: %w", err)
		}
	}

	header := http.Header{}
	if w.opts.Token != "" {
		header.Set("Authorization", "Bearer "+w.opts.Token)
	}

	dialer := websocket.Dialer{HandshakeTimeout: defaultDialTimeout}
	conn, _, err := dialer.DialContext(ctx, w.opts.DispatcherURL, header)
	if err != nil {
		return fmt.Errorf("worker: dial dispatcher: %w", err)
	}
	w.conn = conn
	defer conn.Close()

	if err := w.send(message{Type: msgRegister, WorkerID: w.id, Agent: w.opts.AgentName}); err != nil {
		return fmt.Errorf("worker: register: %w", err)
	}

	log.Info().Str("worker_id", w.id).Str("agent", w.opts.AgentName).Msg("worker registered")

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	defer w.closeAllJobs()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("worker: read dispatcher message: %w", err)
		}
		w.handle(ctx, msg)
	}
}

func (w *Worker) handle(ctx context.Context, msg message) {
	switch msg.Type {
	case msgAssign:
		if msg.Job == nil {
			log.Warn().Msg("assignment without job payload")
			return
		}
		w.startJob(ctx, *msg.Job)
	case msgTurn:
		jc := w.lookupJob(msg.JobID)
		if jc == nil {
			log.Warn().Str("job_id", msg.JobID).Msg("turn for unknown job")
			return
		}
		select {
		case jc.turns <- AudioTurn{Audio: msg.Audio}:
		default:
			log.Warn().Str("job_id", msg.JobID).Msg("turn dropped, job is backlogged")
		}
	case msgTurnEnd:
		w.finishJob(msg.JobID)
	default:
		log.Debug().Str("type", msg.Type).Msg("ignoring dispatcher message")
	}
}

func (w *Worker) startJob(ctx context.Context, job Job) {
	jc := &JobContext{
		Job:     job,
		Process: w.process,
		worker:  w,
		turns:   make(chan AudioTurn, turnBuffer),
	}

	w.jobsMu.Lock()
	w.jobs[job.ID] = jc
	w.jobsMu.Unlock()

	log.Info().Str("job_id", job.ID).Str("room", job.RoomName).
		Str("agent_type", job.AgentType).Msg("job assigned")

	go func() {
		err := w.opts.Entrypoint(ctx, jc)

		state := "done"
		errText := ""
		if err != nil {
			state = "failed"
			errText = err.Error()
			log.Error().Err(err).Str("job_id", job.ID).Msg("job entrypoint failed")
		}
		if sendErr := w.send(message{Type: msgStatus, JobID: job.ID, State: state, Error: errText}); sendErr != nil {
			log.Error().Err(sendErr).Str("job_id", job.ID).Msg("failed to report job status")
		}

		w.jobsMu.Lock()
		delete(w.jobs, job.ID)
		w.jobsMu.Unlock()
	}()
}

func (w *Worker) finishJob(jobID string) {
	w.jobsMu.Lock()
	jc := w.jobs[jobID]
	delete(w.jobs, jobID)
	w.jobsMu.Unlock()

	if jc != nil {
		close(jc.turns)
	}
}

func (w *Worker) lookupJob(jobID string) *JobContext {
	w.jobsMu.Lock()
	defer w.jobsMu.Unlock()
	return w.jobs[jobID]
}

func (w *Worker) closeAllJobs() {
	w.jobsMu.Lock()
	defer w.jobsMu.Unlock()
	for id, jc := range w.jobs {
		close(jc.turns)
		delete(w.jobs, id)
	}
}

func (w *Worker) send(msg message) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, data)
}
