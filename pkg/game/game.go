package game

import (
	"fmt"
	"math/rand"
	"strings"
)

// QuestionCount is the number of questions every generated game carries.
const QuestionCount = 5

// OptionCount is the number of answer options per question.
const OptionCount = 4

// Mode selects which play experience the generated game targets.
type Mode string

const (
	// ModeLegacy is the plain quiz experience.
	ModeLegacy Mode = "legacy"
	// ModeEngine is the themed adventure experience.
	ModeEngine Mode = "engine"
)

// ParseMode parses a mode string, defaulting to legacy for empty input.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeLegacy):
		return ModeLegacy, nil
	case string(ModeEngine):
		return ModeEngine, nil
	default:
		return "", fmt.Errorf("unknown game mode: %q", s)
	}
}

// TaxonomyLevel is the Bloom's taxonomy level targeted by the learning objective.
type TaxonomyLevel string

const (
	TaxonomyRemember   TaxonomyLevel = "remember"
	TaxonomyUnderstand TaxonomyLevel = "understand"
	TaxonomyApply      TaxonomyLevel = "apply"
	TaxonomyAnalyze    TaxonomyLevel = "analyze"
	TaxonomyEvaluate   TaxonomyLevel = "evaluate"
	TaxonomyCreate     TaxonomyLevel = "create"
)

// taxonomyGuidance maps each level to the kind of question the model
// should write for it. Used by the prompt builder.
var taxonomyGuidance = map[TaxonomyLevel]string{
	TaxonomyRemember:   "recall of facts, terms, and definitions from the material",
	TaxonomyUnderstand: "explaining ideas from the material in new words or examples",
	TaxonomyApply:      "using concepts from the material in new situations",
	TaxonomyAnalyze:    "comparing, contrasting, and breaking down ideas from the material",
	TaxonomyEvaluate:   "judging or defending positions based on the material",
	TaxonomyCreate:     "combining ideas from the material into something new",
}

// ParseTaxonomyLevel parses a taxonomy level string, defaulting to
// remember for empty input.
func ParseTaxonomyLevel(s string) (TaxonomyLevel, error) {
	switch TaxonomyLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return TaxonomyRemember, nil
	case TaxonomyRemember, TaxonomyUnderstand, TaxonomyApply,
		TaxonomyAnalyze, TaxonomyEvaluate, TaxonomyCreate:
		return TaxonomyLevel(strings.ToLower(strings.TrimSpace(s))), nil
	default:
		return "", fmt.Errorf("unknown taxonomy level: %q", s)
	}
}

// Theme is a themed category for the generated game. It doubles as the
// preferred-genre hint on GenerationOptions.
type Theme string

const (
	ThemeSpace    Theme = "space"
	ThemeFantasy  Theme = "fantasy"
	ThemeOcean    Theme = "ocean"
	ThemeJungle   Theme = "jungle"
	ThemeMystery  Theme = "mystery"
	ThemeWildWest Theme = "wild-west"
)

// Themes lists every valid theme, in display order.
var Themes = []Theme{
	ThemeSpace,
	ThemeFantasy,
	ThemeOcean,
	ThemeJungle,
	ThemeMystery,
	ThemeWildWest,
}

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// GenerationOptions is the immutable input record for one generation
// request. It is created once per request and never mutated mid-flight.
type GenerationOptions struct {
	Content            string        `json:"content"`
	Objective          string        `json:"objective"`
	Taxonomy           TaxonomyLevel `json:"taxonomy"`
	Mode               Mode          `json:"mode"`
	PreferredGenre     Theme         `json:"preferred_genre,omitempty"`
	MechanicsToInclude []string      `json:"mechanics_to_include,omitempty"`
	MechanicsToAvoid   []string      `json:"mechanics_to_avoid,omitempty"`
}

// Validate checks the options a caller hands to the pipeline.
func (o GenerationOptions) Validate() error {
	if strings.TrimSpace(o.Content) == "" {
		return fmt.Errorf("content is required")
	}
	if strings.TrimSpace(o.Objective) == "" {
		return fmt.Errorf("learning objective is required")
	}
	if _, ok := taxonomyGuidance[o.Taxonomy]; !ok {
		return fmt.Errorf("unknown taxonomy level: %q", o.Taxonomy)
	}
	if o.Mode != ModeLegacy && o.Mode != ModeEngine {
		return fmt.Errorf("unknown game mode: %q", o.Mode)
	}
	if o.PreferredGenre != "" && !o.PreferredGenre.IsValid() {
		return fmt.Errorf("unknown genre: %q", o.PreferredGenre)
	}
	return nil
}

// Question is a single four-option multiple choice question.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	Explanation   string   `json:"explanation"`
	Concept       string   `json:"concept"`
	Misconception string   `json:"misconception,omitempty"`
}

// Validate checks the structural invariants for one question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question id is required")
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %s: prompt is required", q.ID)
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question %s: expected %d options, got %d", q.ID, OptionCount, len(q.Options))
	}
	for i, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("question %s: option %d is empty", q.ID, i)
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("question %s: correctIndex %d out of range", q.ID, q.CorrectIndex)
	}
	if strings.TrimSpace(q.Explanation) == "" {
		return fmt.Errorf("question %s: explanation is required", q.ID)
	}
	return nil
}

// GameData is a fully validated, playable game. It is constructed once by
// the response validator and immutable thereafter; the play client owns it
// for the duration of a session.
type GameData struct {
	Code        string     `json:"code"`
	IsEngine    bool       `json:"isEngine"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Theme       Theme      `json:"theme"`
	Questions   []Question `json:"questions"`
}

// Validate performs the full structural check on a composed game.
func (g GameData) Validate() error {
	if strings.TrimSpace(g.Code) == "" {
		return fmt.Errorf("game code is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !g.Theme.IsValid() {
		return fmt.Errorf("unknown theme: %q", g.Theme)
	}
	if len(g.Questions) != QuestionCount {
		return fmt.Errorf("expected %d questions, got %d", QuestionCount, len(g.Questions))
	}
	seen := make(map[string]bool, len(g.Questions))
	for _, q := range g.Questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id: %s", q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

// codeCharset avoids ambiguous characters so codes survive being read
// aloud or written on a whiteboard.
const codeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a minted game code.
const CodeLength = 6

// NewCode mints a short game code from the provided entropy source.
// Codes are collision-tolerant: each session is independent, so no
// uniqueness check is made against prior games.
func NewCode(r *rand.Rand) string {
	b := make([]byte, CodeLength)
	for i := range b {
		b[i] = codeCharset[r.Intn(len(codeCharset))]
	}
	return string(b)
}
