package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	routerx "github.com/brewhaven/voice-agents/agent/router"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	p := LoadPromptSet()
	for name, text := range map[string]string{
		"barista":     p.Barista,
		"wellness":    p.Wellness,
		"coordinator": p.Coordinator,
		"learn":       p.Learn,
		"quiz":        p.Quiz,
		"teach_back":  p.TeachBack,
	} {
		if strings.TrimSpace(text) == "" {
			t.Fatalf("prompt %s is empty", name)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := LoadPromptSet().Validate(); err != nil {
		t.Fatalf("embedded prompts must validate: %v", err)
	}

	broken := LoadPromptSet()
	broken.Quiz = ""
	if err := broken.Validate(); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected prompt-missing error, got %v", err)
	}
}

func TestRenderWellness(t *testing.T) {
	t.Parallel()

	p := LoadPromptSet()
	out := p.RenderWellness("This is your first check-in with me.")
	if strings.Contains(out, historyMarker) {
		t.Fatal("history marker must be replaced")
	}
	if !strings.Contains(out, "first check-in with me") {
		t.Fatal("history context missing from rendered prompt")
	}
}

func TestTutorFor(t *testing.T) {
	t.Parallel()

	p := LoadPromptSet()
	if got := p.TutorFor(routerx.ModeCoordinator); got != p.Coordinator {
		t.Fatal("coordinator prompt must have no addendum")
	}
	if got := p.TutorFor(routerx.ModeQuiz); !strings.Contains(got, "QUIZ MODE") {
		t.Fatalf("quiz prompt missing addendum: %q", got)
	}
	if got := p.TutorFor(routerx.ModeTeachBack); !strings.Contains(got, "TEACH-BACK MODE") {
		t.Fatalf("teach_back prompt missing addendum: %q", got)
	}
}
