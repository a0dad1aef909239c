package router

import (
	"fmt"
	"strings"

	catalogx "github.com/brewhaven/voice-agents/agent/catalog"
)

// Mode is the tutoring persona currently driving the conversation.
type Mode string

const (
	ModeCoordinator Mode = "coordinator"
	ModeLearn       Mode = "learn"
	ModeQuiz        Mode = "quiz"
	ModeTeachBack   Mode = "teach_back"
)

// ParseMode accepts the three switchable specialist modes, case-insensitive.
// The coordinator is the initial state only; the model cannot switch "into"
// it, it resumes there implicitly between topics.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "learn":
		return ModeLearn, true
	case "quiz":
		return ModeQuiz, true
	case "teach_back", "teachback":
		return ModeTeachBack, true
	default:
		return "", false
	}
}

// Router is the tutoring variant's state machine. One instance per
// conversation; the session's single-threaded tool dispatch is the only
// writer.
type Router struct {
	catalog *catalogx.Catalog
	mode    Mode
	concept catalogx.Concept
	active  bool
}

func New(cat *catalogx.Catalog) *Router {
	return &Router{catalog: cat, mode: ModeCoordinator}
}

func (r *Router) Mode() Mode {
	return r.mode
}

// Concept returns the concept the current mode is working on, if any.
func (r *Router) Concept() (catalogx.Concept, bool) {
	return r.concept, r.active
}

// Reset returns the router to the coordinator with no active concept.
func (r *Router) Reset() {
	r.mode = ModeCoordinator
	r.concept = catalogx.Concept{}
	r.active = false
}

// SwitchResult carries the transition decision plus the sentence the agent
// speaks either way. A rejected switch leaves the router untouched.
type SwitchResult struct {
	Switched bool
	Speech   string
}

// SwitchMode validates the target mode and concept reference, and on success
// transitions the router and returns the canonical per-mode greeting.
func (r *Router) SwitchMode(target, conceptRef string) SwitchResult {
	mode, ok := ParseMode(target)
	if !ok {
		return SwitchResult{Speech: fmt.Sprintf(
			"I can't switch to %q. Valid choices are learn, quiz, or teach_back.", strings.TrimSpace(target))}
	}

	concept, ok := r.catalog.Resolve(conceptRef)
	if !ok {
		return SwitchResult{Speech: r.availableTopics()}
	}

	r.mode = mode
	r.concept = concept
	r.active = true
	return SwitchResult{Switched: true, Speech: Greeting(mode, concept)}
}

// Greeting is the canonical per-mode opener for a concept. The specialist
// tools reuse it so that a re-asked explanation or quiz question matches the
// greeting word for word.
func Greeting(mode Mode, concept catalogx.Concept) string {
	switch mode {
	case ModeLearn:
		return fmt.Sprintf("Let's dig into %s. %s", concept.Title, concept.Summary)
	case ModeQuiz:
		return fmt.Sprintf("Quiz time on %s. Here's your question: %s", concept.Title, concept.SampleQuestion)
	case ModeTeachBack:
		return fmt.Sprintf("Your turn to teach me %s. As a reminder: %s Now explain it back in your own words.",
			concept.Title, concept.Summary)
	default:
		return fmt.Sprintf("We're looking at %s.", concept.Title)
	}
}

// Titles exposes the catalog's topic list for the coordinator.
func (r *Router) Titles() []string {
	return r.catalog.Titles()
}

func (r *Router) availableTopics() string {
	titles := r.catalog.Titles()
	if len(titles) == 0 {
		return "I don't have any topics loaded right now, so I can't start that mode."
	}
	return fmt.Sprintf("I don't know that topic. Available topics are: %s.", strings.Join(titles, ", "))
}

// Explain re-resolves a concept for the specialist tools. An empty ref falls
// back to the concept the router is already on.
func (r *Router) Explain(mode Mode, conceptRef string) SwitchResult {
	concept, ok := r.resolveOrCurrent(conceptRef)
	if !ok {
		return SwitchResult{Speech: r.availableTopics()}
	}
	return SwitchResult{Switched: true, Speech: Greeting(mode, concept)}
}

func (r *Router) resolveOrCurrent(ref string) (catalogx.Concept, bool) {
	if strings.TrimSpace(ref) == "" {
		if r.active {
			return r.concept, true
		}
		return catalogx.Concept{}, false
	}
	return r.catalog.Resolve(ref)
}
