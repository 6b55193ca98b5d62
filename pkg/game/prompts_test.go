package game

import (
	"strings"
	"testing"
)

func TestBuildGenerationPrompt(t *testing.T) {
	opts := GenerationOptions{
		Content:            "unused here",
		Objective:          "Explain photosynthesis",
		Taxonomy:           TaxonomyUnderstand,
		Mode:               ModeEngine,
		PreferredGenre:     ThemeJungle,
		MechanicsToInclude: []string{"scenario questions"},
		MechanicsToAvoid:   []string{"true/false"},
	}
	content := "Photosynthesis converts light energy into chemical energy."

	prompt := BuildGenerationPrompt(opts, content)

	for _, want := range []string{
		"exactly 5 multiple choice questions",
		"Explain photosynthesis",
		"understand",
		"adventure engine",
		"jungle",
		"scenario questions",
		"true/false",
		content,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildGenerationPromptLegacyMode(t *testing.T) {
	opts := GenerationOptions{
		Objective: "Name the planets",
		Taxonomy:  TaxonomyRemember,
		Mode:      ModeLegacy,
	}
	prompt := BuildGenerationPrompt(opts, "The solar system has eight planets.")

	if strings.Contains(prompt, "adventure engine") {
		t.Error("legacy prompt should not mention the adventure engine")
	}
	if !strings.Contains(prompt, "classroom quiz") {
		t.Error("legacy prompt should describe a plain quiz")
	}
}

func TestResponseSchema(t *testing.T) {
	schema := ResponseSchema()

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatal("schema has no properties object")
	}
	for _, field := range []string{"title", "description", "theme", "questions"} {
		if _, ok := props[field]; !ok {
			t.Errorf("schema missing field %q", field)
		}
	}

	questions := props["questions"].(map[string]any)
	items := questions["items"].(map[string]any)
	qProps := items["properties"].(map[string]any)
	for _, field := range []string{"id", "prompt", "options", "correctIndex", "explanation", "concept", "misconception"} {
		if _, ok := qProps[field]; !ok {
			t.Errorf("question schema missing field %q", field)
		}
	}
}
