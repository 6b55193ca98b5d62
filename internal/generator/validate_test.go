package generator

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/nsharkey/classquest/internal/services"
	"github.com/nsharkey/classquest/pkg/game"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func engineOpts() game.GenerationOptions {
	return game.GenerationOptions{
		Content:   "The cell is the basic unit of life.",
		Objective: "Identify cell organelles",
		Taxonomy:  game.TaxonomyRemember,
		Mode:      game.ModeEngine,
	}
}

func TestParseGameFencedInput(t *testing.T) {
	// The model wrapped its output in a fence and helpfully invented a
	// code of its own; the local one must win.
	raw := "```json\n" + strings.Replace(services.MockGameJSON,
		`"title": "Voyage Through the Cell"`,
		`"code": "MODEL1", "title": "T"`, 1) + "\n```"

	gd, err := ParseGame(raw, engineOpts(), testRand(), nil)
	if err != nil {
		t.Fatalf("expected fenced input to parse, got %v", err)
	}

	if gd.Title != "T" {
		t.Errorf("expected title T, got %q", gd.Title)
	}
	if gd.Code == "MODEL1" {
		t.Error("code from the model output must never be trusted")
	}
	if len(gd.Code) != game.CodeLength {
		t.Errorf("expected freshly minted %d-char code, got %q", game.CodeLength, gd.Code)
	}
	if !gd.IsEngine {
		t.Error("isEngine should derive from the requested mode")
	}
	if len(gd.Questions) != game.QuestionCount {
		t.Errorf("expected %d questions, got %d", game.QuestionCount, len(gd.Questions))
	}
}

func TestParseGameLegacyModeNotEngine(t *testing.T) {
	opts := engineOpts()
	opts.Mode = game.ModeLegacy

	gd, err := ParseGame(services.MockGameJSON, opts, testRand(), nil)
	if err != nil {
		t.Fatalf("expected valid payload to parse, got %v", err)
	}
	if gd.IsEngine {
		t.Error("legacy mode must not set isEngine")
	}
}

func TestParseGameMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"bare fence", "```json\n```"},
		{"truncated json", `{"title": "T", "questions": [`},
		{"prose", "Sorry, I can't help with that."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGame(tt.raw, engineOpts(), testRand(), nil)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestParseGameSchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		rewrite func(string) string
	}{
		{
			name: "correct index out of bounds",
			rewrite: func(s string) string {
				return strings.Replace(s, `"correctIndex": 0`, `"correctIndex": 7`, 1)
			},
		},
		{
			name: "wrong question count",
			rewrite: func(s string) string {
				i := strings.LastIndex(s, `,
    {"id": "q5"`)
				return s[:i] + "\n  ]\n}"
			},
		},
		{
			name: "unknown theme",
			rewrite: func(s string) string {
				return strings.Replace(s, `"theme": "space"`, `"theme": "volcano"`, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGame(tt.rewrite(services.MockGameJSON), engineOpts(), testRand(), nil)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("expected FormatError, got %v", err)
			}
		})
	}
}

func TestParseGameMintsMissingQuestionIDs(t *testing.T) {
	raw := strings.Replace(services.MockGameJSON, `"id": "q3"`, `"id": ""`, 1)

	gd, err := ParseGame(raw, engineOpts(), testRand(), nil)
	if err != nil {
		t.Fatalf("expected repairable payload to parse, got %v", err)
	}
	if gd.Questions[2].ID != "q3" {
		t.Errorf("expected minted positional id q3, got %q", gd.Questions[2].ID)
	}
}

func TestParseGameAppliesTextFilter(t *testing.T) {
	raw := strings.Replace(services.MockGameJSON,
		"Explore the organelles that keep a cell alive.",
		"A stupid tour of the cell.", 1)

	gd, err := ParseGame(raw, engineOpts(), testRand(), game.NewTextFilter())
	if err != nil {
		t.Fatalf("expected payload to parse, got %v", err)
	}
	if strings.Contains(gd.Description, "stupid") {
		t.Errorf("description not filtered: %q", gd.Description)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFences(tt.input); got != tt.expected {
			t.Errorf("stripFences(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
