package tool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	statex "github.com/brewhaven/voice-agents/agent/state"
	storex "github.com/brewhaven/voice-agents/agent/store"
)

type fakeOrderSink struct {
	appended  []storex.OrderRecord
	appendErr error
}

func (f *fakeOrderSink) Append(ctx context.Context, rec storex.OrderRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, rec)
	return nil
}

func (f *fakeOrderSink) LoadAll(ctx context.Context) ([]storex.OrderRecord, error) {
	return append([]storex.OrderRecord(nil), f.appended...), nil
}

func baristaFixture() (Deps, *fakeOrderSink) {
	sink := &fakeOrderSink{}
	deps := Deps{
		Order:  statex.NewOrder(),
		Orders: sink,
		Now:    func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
	}
	return deps, sink
}

func call(t *testing.T, exec Executor, tool string, args map[string]any) contractx.ToolReply {
	t.Helper()
	out, err := exec(context.Background(), tool, args)
	if err != nil {
		t.Fatalf("tool %s returned error: %v", tool, err)
	}
	return out
}

func TestUpdateOrderReportsMissing(t *testing.T) {
	t.Parallel()

	deps, _ := baristaFixture()
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	out := call(t, exec, ToolUpdateOrder, map[string]any{"field": "drink", "value": "Latte"})
	if !strings.Contains(out.Speech, "Still need:") {
		t.Fatalf("expected missing-field speech, got %q", out.Speech)
	}
	if strings.Contains(out.Speech, "drink type") {
		t.Fatalf("drink type should no longer be missing: %q", out.Speech)
	}
}

func TestUpdateOrderUnknownField(t *testing.T) {
	t.Parallel()

	deps, _ := baristaFixture()
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	out := call(t, exec, ToolUpdateOrder, map[string]any{"field": "temperature", "value": "hot"})
	if !strings.Contains(out.Speech, "Unknown field: temperature") {
		t.Fatalf("unexpected speech: %q", out.Speech)
	}
}

func TestSaveOrderRejectedWhileIncomplete(t *testing.T) {
	t.Parallel()

	deps, sink := baristaFixture()
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	call(t, exec, ToolUpdateOrder, map[string]any{"field": "drinkType", "value": "Latte"})
	call(t, exec, ToolUpdateOrder, map[string]any{"field": "size", "value": "Medium"})
	call(t, exec, ToolUpdateOrder, map[string]any{"field": "name", "value": "Sam"})

	out := call(t, exec, ToolSaveOrder, nil)
	if !strings.Contains(out.Speech, "Cannot save order yet") || !strings.Contains(out.Speech, "milk preference") {
		t.Fatalf("unexpected rejection speech: %q", out.Speech)
	}
	if len(sink.appended) != 0 {
		t.Fatal("rejected save must not write a record")
	}
	if deps.Order.DrinkType != "Latte" {
		t.Fatal("rejected save must not reset state")
	}
}

func TestSaveOrderCompleteFlow(t *testing.T) {
	t.Parallel()

	deps, sink := baristaFixture()
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	call(t, exec, ToolUpdateOrder, map[string]any{"field": "drinkType", "value": "Latte"})
	call(t, exec, ToolUpdateOrder, map[string]any{"field": "size", "value": "Medium"})
	call(t, exec, ToolUpdateOrder, map[string]any{"field": "milk", "value": "Oat"})
	call(t, exec, ToolUpdateOrder, map[string]any{"field": "extras", "value": "Vanilla Syrup"})

	out := call(t, exec, ToolUpdateOrder, map[string]any{"field": "name", "value": "Sam"})
	if !strings.Contains(out.Speech, "Order complete!") {
		t.Fatalf("expected completion signal, got %q", out.Speech)
	}

	out = call(t, exec, ToolSaveOrder, nil)
	if !strings.Contains(out.Speech, "Order saved successfully!") {
		t.Fatalf("unexpected save speech: %q", out.Speech)
	}

	if len(sink.appended) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(sink.appended))
	}
	rec := sink.appended[0]
	if rec.Order.DrinkType != "Latte" || rec.Order.Milk != "Oat" || rec.Order.Name != "Sam" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(rec.Order.Extras) != 1 || rec.Order.Extras[0] != "Vanilla Syrup" {
		t.Fatalf("unexpected extras: %v", rec.Order.Extras)
	}
	if _, err := time.Parse(time.RFC3339, rec.Timestamp); err != nil {
		t.Fatalf("record timestamp not RFC3339: %q", rec.Timestamp)
	}
	if rec.Status != storex.StatusCompleted {
		t.Fatalf("unexpected status: %q", rec.Status)
	}

	if deps.Order.IsComplete() {
		t.Fatal("state must reset after a successful save")
	}
}

func TestSaveOrderSinkFailureKeepsState(t *testing.T) {
	t.Parallel()

	deps, sink := baristaFixture()
	sink.appendErr = errors.New("disk full")
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	for field, value := range map[string]string{
		"drinkType": "Mocha", "size": "Large", "milk": "Soy", "name": "Ada",
	} {
		call(t, exec, ToolUpdateOrder, map[string]any{"field": field, "value": value})
	}

	out := call(t, exec, ToolSaveOrder, nil)
	if !strings.Contains(out.Speech, "couldn't save") {
		t.Fatalf("expected apology speech, got %q", out.Speech)
	}
	if !deps.Order.IsComplete() {
		t.Fatal("failed save must keep the order for a retry")
	}
}

func TestGetOrderStatus(t *testing.T) {
	t.Parallel()

	deps, _ := baristaFixture()
	_, exec := BuildForAgent(contractx.AgentTypeBarista, deps)

	out := call(t, exec, ToolGetOrderStatus, nil)
	if !strings.Contains(out.Speech, "drink not set") {
		t.Fatalf("unexpected status speech: %q", out.Speech)
	}

	call(t, exec, ToolUpdateOrder, map[string]any{"field": "drink", "value": "Cold Brew"})
	out = call(t, exec, ToolGetOrderStatus, nil)
	if !strings.Contains(out.Speech, "Cold Brew") {
		t.Fatalf("status must reflect updates: %q", out.Speech)
	}
}

func TestBaristaToolInfos(t *testing.T) {
	t.Parallel()

	infos, exec := BuildForAgent(contractx.AgentTypeBarista, Deps{Order: statex.NewOrder(), Orders: &fakeOrderSink{}})
	if len(infos) != 3 {
		t.Fatalf("expected 3 barista tools, got %d", len(infos))
	}
	if infos[0].Name != ToolUpdateOrder {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}
	if exec == nil {
		t.Fatal("executor must not be nil")
	}

	out := call(t, exec, "make_sandwich", nil)
	if !strings.Contains(out.Speech, "don't have") {
		t.Fatalf("unknown tool must get the unavailable reply, got %q", out.Speech)
	}
}
