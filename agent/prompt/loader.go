package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/brewhaven/voice-agents/agent/contract"
	routerx "github.com/brewhaven/voice-agents/agent/router"
)

var (
	//go:embed template/barista.txt
	baristaRaw string

	//go:embed template/wellness.txt
	wellnessRaw string

	//go:embed template/coordinator.txt
	coordinatorRaw string

	//go:embed template/learn.txt
	learnRaw string

	//go:embed template/quiz.txt
	quizRaw string

	//go:embed template/teach_back.txt
	teachBackRaw string
)

const historyMarker = "{{history_context}}"

// PromptSet holds the loaded persona instruction texts.
type PromptSet struct {
	Barista     string
	Wellness    string
	Coordinator string
	Learn       string
	Quiz        string
	TeachBack   string
}

// LoadPromptSet returns trimmed prompt strings. The embed is compile-time,
// so this is safe to call concurrently.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Barista:     strings.TrimSpace(baristaRaw),
		Wellness:    strings.TrimSpace(wellnessRaw),
		Coordinator: strings.TrimSpace(coordinatorRaw),
		Learn:       strings.TrimSpace(learnRaw),
		Quiz:        strings.TrimSpace(quizRaw),
		TeachBack:   strings.TrimSpace(teachBackRaw),
	}
}

// Validate catches an empty embedded template at startup instead of mid
// conversation.
func (p PromptSet) Validate() error {
	for name, text := range map[string]string{
		"barista":     p.Barista,
		"wellness":    p.Wellness,
		"coordinator": p.Coordinator,
		"learn":       p.Learn,
		"quiz":        p.Quiz,
		"teach_back":  p.TeachBack,
	} {
		if text == "" {
			return fmt.Errorf("%w: %s", contractx.ErrPromptMissing, name)
		}
	}
	return nil
}

// RenderWellness injects the history context sentence built from the
// wellness log into the companion's instructions.
func (p PromptSet) RenderWellness(historyContext string) string {
	return strings.ReplaceAll(p.Wellness, historyMarker, strings.TrimSpace(historyContext))
}

// TutorFor composes the coordinator base with the active mode's addendum.
// The coordinator itself has no addendum.
func (p PromptSet) TutorFor(mode routerx.Mode) string {
	switch mode {
	case routerx.ModeLearn:
		return p.Coordinator + "\n\n" + p.Learn
	case routerx.ModeQuiz:
		return p.Coordinator + "\n\n" + p.Quiz
	case routerx.ModeTeachBack:
		return p.Coordinator + "\n\n" + p.TeachBack
	default:
		return p.Coordinator
	}
}
