package tool

import (
	"context"
	"strings"
	"testing"
	"time"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	statex "github.com/brewhaven/voice-agents/agent/state"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

type fakeCheckinSink struct {
	appended []storex.CheckinRecord
	loadErr  error
}

func (f *fakeCheckinSink) Append(ctx context.Context, rec storex.CheckinRecord) error {
	f.appended = append(f.appended, rec)
	return nil
}

func (f *fakeCheckinSink) LoadAll(ctx context.Context) ([]storex.CheckinRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]storex.CheckinRecord(nil), f.appended...), nil
}

func wellnessFixture() (Deps, *fakeCheckinSink) {
	sink := &fakeCheckinSink{}
	deps := Deps{
		Checkin:  statex.NewCheckin(),
		Checkins: sink,
		Now:      func() time.Time { return time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC) },
	}
	return deps, sink
}

func TestRecordMoodDefaultsEnergy(t *testing.T) {
	t.Parallel()

	deps, _ := wellnessFixture()
	_, exec := BuildForAgent(contractx.AgentTypeWellness, deps)

	out := call(t, exec, ToolRecordMood, map[string]any{"mood_description": "tired"})
	if !strings.Contains(out.Speech, "tired") || !strings.Contains(out.Speech, "not specified") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}
	if deps.Checkin.Mood != "tired" || deps.Checkin.Energy != "not specified" {
		t.Fatalf("unexpected state: %+v", deps.Checkin)
	}
}

func TestSaveCheckinRequiresMoodAndObjectives(t *testing.T) {
	t.Parallel()

	deps, sink := wellnessFixture()
	_, exec := BuildForAgent(contractx.AgentTypeWellness, deps)

	out := call(t, exec, ToolSaveCheckin, map[string]any{"summary": "too early"})
	if !strings.Contains(out.Speech, "mood hasn't been recorded") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}

	call(t, exec, ToolRecordMood, map[string]any{"mood_description": "okay", "energy_level": "low"})
	out = call(t, exec, ToolSaveCheckin, map[string]any{"summary": "still early"})
	if !strings.Contains(out.Speech, "no objectives recorded") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}
	if len(sink.appended) != 0 {
		t.Fatal("rejected save must not write")
	}
}

func TestSaveCheckinSuccessResets(t *testing.T) {
	t.Parallel()

	deps, sink := wellnessFixture()
	_, exec := BuildForAgent(contractx.AgentTypeWellness, deps)

	call(t, exec, ToolRecordMood, map[string]any{"mood_description": "focused", "energy_level": "high"})
	call(t, exec, ToolRecordStressFactor, map[string]any{"stress_factor": "deadline"})
	call(t, exec, ToolRecordObjective, map[string]any{"objective": "finish report"})
	call(t, exec, ToolRecordObjective, map[string]any{"objective": "short walk"})

	out := call(t, exec, ToolSaveCheckin, map[string]any{"summary": "A focused day ahead."})
	if !strings.Contains(out.Speech, "Check-in saved!") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}

	if len(sink.appended) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.appended))
	}
	rec := sink.appended[0]
	if rec.Mood != "focused" || len(rec.Objectives) != 2 || rec.Summary != "A focused day ahead." {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Timestamp != "2026-03-14T08:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", rec.Timestamp)
	}

	if deps.Checkin.IsSaveable() {
		t.Fatal("state must reset after save")
	}
}

func TestReviewRecentCheckins(t *testing.T) {
	t.Parallel()

	deps, sink := wellnessFixture()
	_, exec := BuildForAgent(contractx.AgentTypeWellness, deps)

	out := call(t, exec, ToolReviewRecentCheckins, nil)
	if !strings.Contains(out.Speech, "No previous check-ins") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}

	for _, mood := range []string{"calm", "stressed", "energized", "okay"} {
		sink.appended = append(sink.appended, storex.CheckinRecord{
			Mood: mood, Objectives: []string{"something"},
		})
	}

	out = call(t, exec, ToolReviewRecentCheckins, map[string]any{"days": float64(3)})
	if !strings.Contains(out.Speech, "last 3 check-ins") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}
	if strings.Contains(out.Speech, "calm") {
		t.Fatalf("oldest entry must fall outside the window: %q", out.Speech)
	}
	if !strings.Contains(out.Speech, "consistent") {
		t.Fatalf("three or more reviewed check-ins should earn the consistency note: %q", out.Speech)
	}
}

func TestReviewRecentCheckinsHistoryFailure(t *testing.T) {
	t.Parallel()

	deps, sink := wellnessFixture()
	sink.loadErr = context.DeadlineExceeded
	_, exec := BuildForAgent(contractx.AgentTypeWellness, deps)

	out := call(t, exec, ToolReviewRecentCheckins, nil)
	if !strings.Contains(out.Speech, "No previous check-ins") {
		t.Fatalf("history failure must degrade to empty, got %q", out.Speech)
	}
}
