package agents

import (
	"context"
	"errors"
	"strings"
	"testing"

	catalogx "github.com/brewhaven/voice-agents/agent/catalog"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

type stubCheckinSink struct {
	history []storex.CheckinRecord
	loadErr error
}

func (s *stubCheckinSink) Append(ctx context.Context, rec storex.CheckinRecord) error {
	s.history = append(s.history, rec)
	return nil
}

func (s *stubCheckinSink) LoadAll(ctx context.Context) ([]storex.CheckinRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.history, nil
}

func TestHistoryContextFirstCheckin(t *testing.T) {
	t.Parallel()

	got := historyContext(nil)
	if got != "This is your first check-in with me." {
		t.Fatalf("unexpected context: %q", got)
	}
}

func TestHistoryContextReferencesLastEntry(t *testing.T) {
	t.Parallel()

	got := historyContext([]storex.CheckinRecord{
		{Mood: "calm", Timestamp: "2026-03-13T08:00:00Z", Objectives: []string{"run", "read", "cook"}},
		{Mood: "stressed", Timestamp: "2026-03-14T08:00:00Z", Objectives: []string{"breathe", "walk", "sleep"}},
	})
	if !strings.Contains(got, "2026-03-14") || !strings.Contains(got, "stressed") {
		t.Fatalf("context must reference the most recent entry: %q", got)
	}
	if !strings.Contains(got, "breathe, walk") || strings.Contains(got, "sleep") {
		t.Fatalf("context must mention at most two objectives: %q", got)
	}
}

func TestNewWellnessDegradesOnHistoryFailure(t *testing.T) {
	t.Parallel()

	def := NewWellness(context.Background(), &stubCheckinSink{loadErr: errors.New("boom")})
	if !strings.Contains(def.Instructions(), "first check-in") {
		t.Fatalf("history failure must fall back to first-time greeting: %q", def.Instructions())
	}
	if len(def.Tools) != 5 {
		t.Fatalf("expected 5 wellness tools, got %d", len(def.Tools))
	}
}

func TestNewTutorInstructionsFollowMode(t *testing.T) {
	t.Parallel()

	cat := catalogx.New([]catalogx.Concept{
		{ID: "loops", Title: "Loops", Summary: "Loops repeat work.", SampleQuestion: "When does a for loop stop?"},
	})
	def := NewTutor(cat)

	before := def.Instructions()
	if strings.Contains(before, "QUIZ MODE") {
		t.Fatal("coordinator instructions must not carry a mode addendum")
	}

	if _, err := def.Execute(context.Background(), "switch_mode", map[string]any{
		"mode": "quiz", "concept": "loops",
	}); err != nil {
		t.Fatalf("switch_mode: %v", err)
	}

	after := def.Instructions()
	if !strings.Contains(after, "QUIZ MODE") {
		t.Fatalf("instructions must follow the active mode: %q", after)
	}
}

func TestNewBaristaDefinition(t *testing.T) {
	t.Parallel()

	def := NewBarista(&stubOrderSink{})
	if def.Name == "" || len(def.Tools) != 3 {
		t.Fatalf("unexpected definition: %+v", def)
	}
	if !strings.Contains(def.Instructions(), "Brew Haven") {
		t.Fatal("barista instructions missing persona")
	}
}

type stubOrderSink struct{}

func (stubOrderSink) Append(ctx context.Context, rec storex.OrderRecord) error { return nil }
func (stubOrderSink) LoadAll(ctx context.Context) ([]storex.OrderRecord, error) {
	return nil, nil
}
