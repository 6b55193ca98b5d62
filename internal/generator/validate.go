package generator

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/nsharkey/classquest/pkg/game"
)

// modelGame mirrors the fields the model is asked to produce. Code and
// isEngine are deliberately absent: they are minted locally and never
// trusted from the model even if present in its output.
type modelGame struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Theme       string          `json:"theme"`
	Questions   []modelQuestion `json:"questions"`
}

type modelQuestion struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	Explanation   string   `json:"explanation"`
	Concept       string   `json:"concept"`
	Misconception string   `json:"misconception"`
}

// stripFences removes a code-fence wrapper the model may emit around
// structured output, plus surrounding whitespace.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			s = s[i+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ParseGame cleans, parses, validates, and enriches one raw model
// response into a playable game. Parse and validation failures return a
// FormatError so the orchestrator can retry under another strategy.
func ParseGame(raw string, opts game.GenerationOptions, r *rand.Rand, filter *game.TextFilter) (*game.GameData, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return nil, formatErr("response is empty after cleaning", nil)
	}

	var parsed modelGame
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, formatErr("response is not valid JSON", err)
	}

	g := &game.GameData{
		Code:        game.NewCode(r),
		IsEngine:    opts.Mode == game.ModeEngine,
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(parsed.Description),
		Theme:       game.Theme(strings.ToLower(strings.TrimSpace(parsed.Theme))),
		Questions:   make([]game.Question, 0, len(parsed.Questions)),
	}

	for i, q := range parsed.Questions {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			// Repairable: mint a positional id rather than failing
			// the whole attempt.
			id = fmt.Sprintf("q%d", i+1)
		}
		g.Questions = append(g.Questions, game.Question{
			ID:            id,
			Prompt:        strings.TrimSpace(q.Prompt),
			Options:       q.Options,
			CorrectIndex:  q.CorrectIndex,
			Explanation:   strings.TrimSpace(q.Explanation),
			Concept:       strings.TrimSpace(q.Concept),
			Misconception: strings.TrimSpace(q.Misconception),
		})
	}

	if err := g.Validate(); err != nil {
		return nil, formatErr("response failed schema validation", err)
	}

	if filter != nil {
		filter.CleanGame(g)
	}

	return g, nil
}
