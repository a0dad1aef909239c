package catalog

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Concept is one teachable topic from the static catalog file.
type Concept struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	SampleQuestion string `json:"sample_question"`
}

// Catalog holds the concepts loaded at process start. It is read-only after
// Load, so it is safe to share across conversations.
type Catalog struct {
	concepts []Concept
}

// Load reads the catalog file. A missing or unparsable file yields an empty
// catalog with a logged error; the tutor then has no topics but the
// conversation still runs.
func Load(path string) *Catalog {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("concept catalog unavailable, starting empty")
		return &Catalog{}
	}

	var concepts []Concept
	if err := json.Unmarshal(raw, &concepts); err != nil {
		log.Error().Err(err).Str("path", path).Msg("concept catalog unparsable, starting empty")
		return &Catalog{}
	}

	return &Catalog{concepts: concepts}
}

// New builds a catalog from already-loaded concepts. Used by tests and by
// callers with an alternate source.
func New(concepts []Concept) *Catalog {
	return &Catalog{concepts: append([]Concept(nil), concepts...)}
}

// Resolve finds a concept by id or title, case-insensitive exact match.
func (c *Catalog) Resolve(ref string) (Concept, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Concept{}, false
	}
	for _, concept := range c.concepts {
		if strings.EqualFold(concept.ID, ref) || strings.EqualFold(concept.Title, ref) {
			return concept, true
		}
	}
	return Concept{}, false
}

// Titles lists the available topics for "pick one of" prompts.
func (c *Catalog) Titles() []string {
	titles := make([]string, 0, len(c.concepts))
	for _, concept := range c.concepts {
		titles = append(titles, concept.Title)
	}
	return titles
}

func (c *Catalog) Len() int {
	return len(c.concepts)
}
