package worker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type fakeDispatcher struct {
	t        *testing.T
	upgrader websocket.Upgrader

	received chan message
	outbound chan message
}

func newFakeDispatcher(t *testing.T) *fakeDispatcher {
	return &fakeDispatcher{
		t:        t,
		received: make(chan message, 16),
		outbound: make(chan message, 16),
	}
}

func (d *fakeDispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	go func() {
		for msg := range d.outbound {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		d.received <- msg
	}
}

func (d *fakeDispatcher) expect(msgType string) message {
	d.t.Helper()
	select {
	case msg := <-d.received:
		if msg.Type != msgType {
			d.t.Fatalf("expected %s message, got %s", msgType, msg.Type)
		}
		return msg
	case <-time.After(3 * time.Second):
		d.t.Fatalf("timed out waiting for %s message", msgType)
		return message{}
	}
}

func TestWorkerServesOneJob(t *testing.T) {
	dispatcher := newFakeDispatcher(t)
	srv := httptest.NewServer(dispatcher)
	defer srv.Close()

	prewarmed := make(chan struct{})
	w, err := New(Options{
		DispatcherURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		AgentName:     "test-agent",
		Prewarm: func(p *Process) error {
			p.Set("greeting", "hello")
			close(prewarmed)
			return nil
		},
		Entrypoint: func(ctx context.Context, jc *JobContext) error {
			if val, ok := jc.Process.Get("greeting"); !ok || val != "hello" {
				t.Errorf("prewarmed state missing in job context")
			}
			for turn := range jc.Turns() {
				if err := jc.SendSpeech(turn.Audio, "echo"); err != nil {
					return err
				}
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	reg := dispatcher.expect(msgRegister)
	if reg.WorkerID == "" || reg.Agent != "test-agent" {
		t.Fatalf("bad registration: %+v", reg)
	}

	select {
	case <-prewarmed:
	default:
		t.Fatal("prewarm must run before registration")
	}

	dispatcher.outbound <- message{Type: msgAssign, Job: &Job{
		ID: "job-1", RoomName: "room-1", AgentType: "barista",
	}}
	dispatcher.outbound <- message{Type: msgTurn, JobID: "job-1", Audio: []byte("pcm")}

	speech := dispatcher.expect(msgSpeech)
	if speech.JobID != "job-1" || string(speech.Audio) != "pcm" || speech.Text != "echo" {
		t.Fatalf("bad speech message: %+v", speech)
	}

	dispatcher.outbound <- message{Type: msgTurnEnd, JobID: "job-1"}

	status := dispatcher.expect(msgStatus)
	if status.JobID != "job-1" || status.State != "done" || status.Error != "" {
		t.Fatalf("bad status message: %+v", status)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("worker did not stop on context cancel")
	}
}

func TestWorkerReportsEntrypointFailure(t *testing.T) {
	dispatcher := newFakeDispatcher(t)
	srv := httptest.NewServer(dispatcher)
	defer srv.Close()

	w, err := New(Options{
		DispatcherURL: "ws" + strings.TrimPrefix(srv.URL, "http"),
		Entrypoint: func(ctx context.Context, jc *JobContext) error {
			return context.DeadlineExceeded
		},
	})
	if err != nil {
		t.Fatalf("new worker: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	dispatcher.expect(msgRegister)
	dispatcher.outbound <- message{Type: msgAssign, Job: &Job{ID: "job-2", AgentType: "tutor"}}

	status := dispatcher.expect(msgStatus)
	if status.State != "failed" || status.Error == "" {
		t.Fatalf("failure must be reported: %+v", status)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Entrypoint: func(context.Context, *JobContext) error { return nil }}); err == nil {
		t.Fatal("missing dispatcher url must fail")
	}
	if _, err := New(Options{DispatcherURL: "ws://x"}); err == nil {
		t.Fatal("missing entrypoint must fail")
	}
}
